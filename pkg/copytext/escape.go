package copytext

// Escape serializes field text the way PostgreSQL's COPY TO does, so that
// Parse(Escape(s)) round-trips. Used by tests and by tools that fabricate
// COPY streams.
func Escape(text string) string {
	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\\':
			out = append(out, '\\', '\\')
		case 0x08:
			out = append(out, '\\', 'b')
		case 0x0C:
			out = append(out, '\\', 'f')
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		case '\t':
			out = append(out, '\\', 't')
		case 0x0B:
			out = append(out, '\\', 'v')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
