// Package copytext parses records in PostgreSQL's COPY TEXT format into
// typed rows.
//
// # Record Grammar
//
// One record is a line of tab-separated fields terminated by a line feed:
//
//	field <TAB> field <TAB> ... field <LF>
//
// A backslash escapes the character after it. The escapes PostgreSQL emits
// are decoded exactly:
//
//	\b  backspace (0x08)      \t  tab (0x09)
//	\f  form feed (0x0C)      \v  vertical tab (0x0B)
//	\n  line feed (0x0A)      \N  the two literal characters \N
//	\r  carriage return (0x0D)
//
// Any other escaped character stands for itself; the backslash is dropped.
// A field whose fully unescaped text is exactly \N is the NULL marker and
// produces an absent cell that remembers the column's type OID.
//
// Note the deliberate corner the grammar paints itself into: NULL is
// recognized on the unescaped text, and the only way a backslash reaches the
// unescaped buffer is through the escape branch, so the escaped input \\N is
// indistinguishable from the NULL marker. Parse decodes it as NULL, the same
// way the server-side grammar intends it. TestParse_NullCollision pins this
// down.
//
// # Errors
//
// Parse never returns a partial row. Failure kinds, all matchable with
// errors.Is / errors.As:
//
//   - ErrInvalidEncoding: record bytes are not valid UTF-8
//   - ErrUnterminatedRecord: input ended before a line feed
//   - *ColumnCountMismatchError: field count differs from the schema
//   - *FieldDecodeError: a field's text was rejected for its declared type;
//     wraps the decoder error, so decode.UnsupportedTypeError and
//     decode.ValueError stay distinguishable underneath it
//
// # Concurrency
//
// Parse is a pure function over its arguments: no locks, no I/O, no state
// shared between calls. Calls for different tables may run concurrently as
// long as the caller does not mutate a column slice mid-parse.
package copytext
