package media

// Inspector extracts Metadata from a raw payload. Implementations never fail:
// an unparsable payload yields invalid (zero) metadata.
type Inspector interface {
	Inspect(payload []byte) Metadata
}

// InspectorFunc adapts a function to Inspector.
type InspectorFunc func(payload []byte) Metadata

// Inspect calls f.
func (f InspectorFunc) Inspect(payload []byte) Metadata { return f(payload) }

// Inspectors maps each kind to its inspector.
type Inspectors map[Kind]Inspector

// DefaultInspectors returns the image and video inspectors.
func DefaultInspectors() Inspectors {
	return Inspectors{
		KindImage: InspectorFunc(InspectImage),
		KindVideo: InspectorFunc(InspectVideo),
	}
}

// Inspect dispatches to the inspector registered for kind. An unknown kind
// yields nil.
func (in Inspectors) Inspect(payload []byte, kind Kind) Metadata {
	inspector, ok := in[kind]
	if !ok {
		return nil
	}
	return inspector.Inspect(payload)
}

// Inspect runs the default inspector for kind.
func Inspect(payload []byte, kind Kind) Metadata {
	return DefaultInspectors().Inspect(payload, kind)
}
