package tui

import "github.com/veo1/supplier-registry/models"

// Store operations run as commands and report back with these messages.

type supplierRegisteredMsg struct {
	rec models.Record
	err error
}

type photoImportedMsg struct {
	ref string
	err error
}

type suppliersLoadedMsg struct {
	err error
}

type supplierSavedMsg struct {
	rec models.Record
	err error
}

type supplierDeletedMsg struct {
	err error
}
