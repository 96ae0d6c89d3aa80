// Package hostapp is the host application a shell script runs against.
//
// Bootstrap loads the configuration for an application root and fills a
// di.Container with the services scripts may ask for:
//
//   - *config.Config       loaded settings
//   - *State               application area code
//   - *Registry            process-wide key/value flags (isSecureArea, ...)
//   - *DirectoryList       well-known directories under the root
//   - *store.Connection    the database connection
//   - *ProductRepository   catalog products stored in the database
//   - *fileio.IO           CSV/XML/JSON file adapter
//   - *console.Output      console writer
//   - *logging.Logger      file logger, built with Create (name, filePath, fileName)
package hostapp
