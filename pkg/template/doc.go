// Package template renders the {{...}} placeholders found in configured
// response bodies.
//
// Render walks maps and slices and rewrites string leaves. A string whose
// trimmed value is exactly one data tag is replaced by the tag's result,
// which need not be a string:
//
//	{{database}}                        every record
//	{{database_count}}                  number of records (int)
//	{{database_filter:<field>:<value>}} records with field == value
//	{{database_find:<field>:<value>}}   first such record, or null
//	{{database_filter_genre:<genre>}}   records whose genres contain genre
//
// <value> and <genre> may be {{query.<name>}}. For database_filter the
// values "true" and "false" are compared as booleans.
//
// Any other string gets substring substitution, in this order:
//
//	{{query.<name>}}  first value of the query or body parameter, JSON-escaped
//	{{timestamp}}     current UTC time, ISO-8601 with offset
//	{{random_int}}    integer in [0, 1000000]
//	{{random_price}}  "$" followed by an integer in [20, 80]
//	{{uuid}}          random version 4 UUID
//
// Each substitution tag is evaluated once per string, so repeated
// occurrences within one string receive the same value.
package template
