package resolver

// Kind selects which identifier space a batch resolves.
type Kind int

const (
	User Kind = iota
	Song
)

const (
	UnknownUser = "Unknown"
	UnknownSong = "Unresolved"
)

func (k Kind) String() string {
	switch k {
	case User:
		return "users"
	case Song:
		return "songs"
	default:
		return "unknown"
	}
}

// Sentinel is the display name used when an id cannot be resolved.
func (k Kind) Sentinel() string {
	if k == Song {
		return UnknownSong
	}
	return UnknownUser
}

// Query is the point lookup statement for the kind.
func (k Kind) Query() string {
	if k == Song {
		return "SELECT cancion_id, titulo FROM canciones WHERE cancion_id = ?"
	}
	return "SELECT usuario_id, nombre FROM usuarios WHERE usuario_id = ?"
}

func (k Kind) nameColumn() string {
	if k == Song {
		return "titulo"
	}
	return "nombre"
}
