package errors

// Convenience functions for common error patterns

// Config errors

func ConfigNotFound(path string) *SiteError {
	return New(CategoryConfig, SeverityFatal, "configuration file not found").
		WithContext("path", path)
}

func ConfigInvalid(path string, cause error) *SiteError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration invalid").
		WithContext("path", path)
}

func ValidationFailed(field, reason string) *SiteError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

// Build errors

func PluginFailed(plugin string, cause error) *SiteError {
	return Wrap(cause, CategoryPlugin, SeverityFatal, "plugin failed").
		WithContext("plugin", plugin)
}

func DirectoryUnreadable(path string, cause error) *SiteError {
	return Wrap(cause, CategoryIO, SeverityFatal, "directory could not be read").
		WithContext("path", path)
}

func OutputFailed(path string, cause error) *SiteError {
	return Wrap(cause, CategoryIO, SeverityFatal, "output could not be written").
		WithContext("path", path)
}

// Content errors

// ContentRejected reports content that parsed but cannot be published.
func ContentRejected(path string, cause error) *SiteError {
	return Wrap(cause, CategoryContent, SeverityFatal, "content rejected").
		WithContext("path", path)
}

// Internal errors

func InternalError(message string, cause error) *SiteError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
