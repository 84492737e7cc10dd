// Package extractors provides implementations of the Extractor interface
// for various file formats. Each extractor knows how to pull text content
// out of the files with a given set of extensions.
//
// Extractors are registered with the loader at startup.
package extractors
