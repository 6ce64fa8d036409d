// Package printing contains the Printing bounded context.
// It defines the receipt kinds, output formats and paper geometry, and the
// PageBuilder capability that receipt composition draws onto.
package printing
