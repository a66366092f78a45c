package common

import "fmt"

var (
	ErrInvalidInput      = fmt.Errorf("ID or path to games.yml was invalid")
	ErrInvalidIdentifier = fmt.Errorf("unknown ID")
	ErrNoManifest        = fmt.Errorf("no manifest found")
	ErrManifestFetch     = fmt.Errorf("cannot fetch manifest")
	ErrManifestParse     = fmt.Errorf("cannot parse manifest")
	ErrTransfer          = fmt.Errorf("transfer failed")
	ErrFilesystem        = fmt.Errorf("filesystem error")
)
