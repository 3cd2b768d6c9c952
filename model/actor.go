package model

// Actor is the identity on whose behalf a mutating operation runs
type Actor struct {
	ID   string
	Kind ActorKind
}

// ActorKind ...
type ActorKind int

const (
	// ActorKindSystem ...
	ActorKindSystem ActorKind = 1

	// ActorKindInfluencer ...
	ActorKindInfluencer ActorKind = 2

	// ActorKindAdvertiser ...
	ActorKindAdvertiser ActorKind = 3

	// ActorKindAdmin ...
	ActorKindAdmin ActorKind = 4
)

// SystemActor is used by background jobs
var SystemActor = Actor{ID: "system", Kind: ActorKindSystem}
