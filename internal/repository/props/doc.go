// Package props reads the firmware version triple from an INI properties file.
//
// The FileRepository parses the [VERSION] section and reports every malformed
// input as a *ConfigError, which callers treat as fatal.
package props
