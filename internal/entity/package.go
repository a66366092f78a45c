package entity

// UpdatePackage is a single downloadable update from a title manifest.
type UpdatePackage struct {
	Version          string
	Size             int64  // Size in bytes as announced by the manifest
	SizeMB           string // Size in megabytes, two decimals
	MinSystemVersion string // ps3_system_ver attribute
	URL              string
	Filename         string // Last path segment of URL
	FilenameErr      error  // Why Filename is empty, nil otherwise
	Title            *Title // Back reference, not owned
}
