package tagbridge

// UpdateOption configures behavior when writing metadata.
//
// Example:
//
//	err := file.Update(md,
//	    tagbridge.WithBackup(".bak"),
//	    tagbridge.WithValidation(),
//	)
type UpdateOption func(*updateOptions)

// updateOptions holds configuration for updates.
type updateOptions struct {
	target          MetadataFormat // Format to write (FormatUnknown = primary)
	backupSuffix    string         // Suffix for backup file (e.g., ".bak")
	validate        bool           // Re-read after write to verify
	preserveModTime bool           // Keep original modification time
}

// defaultUpdateOptions returns the default configuration for updates.
func defaultUpdateOptions() *updateOptions {
	return &updateOptions{}
}

// WithTargetFormat writes to the given metadata format instead of the
// container's primary one.
//
// Example:
//
//	err := file.Update(md, tagbridge.WithTargetFormat(tagbridge.FormatID3v1))
func WithTargetFormat(format MetadataFormat) UpdateOption {
	return func(o *updateOptions) {
		o.target = format
	}
}

// WithBackup copies the original file before writing.
//
// The backup file will have the specified suffix appended to the original
// filename. For example, WithBackup(".bak") will create "song.mp3.bak"
// before modifying "song.mp3".
//
// If the backup file already exists, it will be overwritten.
func WithBackup(suffix string) UpdateOption {
	return func(o *updateOptions) {
		o.backupSuffix = suffix
	}
}

// WithValidation re-reads the file after writing to verify integrity.
//
// Every written field is read back through a fresh reader and compared with
// the requested value. Formats that truncate values, such as ID3v1, fail
// validation when a value did not fit.
func WithValidation() UpdateOption {
	return func(o *updateOptions) {
		o.validate = true
	}
}

// WithPreserveModTime keeps the original file modification time.
//
// Example:
//
//	err := file.Update(md, tagbridge.WithPreserveModTime())
//	// File modification time unchanged
func WithPreserveModTime() UpdateOption {
	return func(o *updateOptions) {
		o.preserveModTime = true
	}
}
