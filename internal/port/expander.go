package port

// Expander turns a raw signature into a snippet. The boolean is false when
// the signature does not describe a function.
type Expander interface {
	Expand(sig string) (string, bool)
}
