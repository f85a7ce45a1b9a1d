package talk

// ActorSlug is the unique, stable textual identifier of an actor.
type ActorSlug = string

// Actor is a registered dialogue participant. Immutable once registered;
// nodes reference actors, they never own them.
type Actor struct {
	// Slug uniquely identifies the actor within one registry.
	Slug ActorSlug
	// Name is the display name of the character the actor plays.
	Name string
	// Asset optionally references an appearance or voice asset. The
	// engine stores it verbatim and assigns no semantics to it.
	Asset string
}

// ActorRegistry resolves actor slugs to their metadata. Registration is
// append-only: there is no removal for the lifetime of one build.
type ActorRegistry struct {
	bySlug map[ActorSlug]*Actor
	order  []*Actor
}

// NewActorRegistry returns an empty registry.
func NewActorRegistry() *ActorRegistry {
	return &ActorRegistry{bySlug: make(map[ActorSlug]*Actor)}
}

// Register adds an actor under the given slug. It fails with
// *DuplicateActorError if the slug is already present.
func (r *ActorRegistry) Register(slug ActorSlug, name, asset string) (*Actor, error) {
	if _, ok := r.bySlug[slug]; ok {
		return nil, &DuplicateActorError{Slug: slug}
	}
	a := &Actor{Slug: slug, Name: name, Asset: asset}
	r.bySlug[slug] = a
	r.order = append(r.order, a)
	return a, nil
}

// Resolve returns the actor registered under slug, or *UnknownActorError.
func (r *ActorRegistry) Resolve(slug ActorSlug) (*Actor, error) {
	a, ok := r.bySlug[slug]
	if !ok {
		return nil, &UnknownActorError{Action: -1, Slug: slug}
	}
	return a, nil
}

// Len returns the number of registered actors.
func (r *ActorRegistry) Len() int {
	return len(r.order)
}

// Actors returns the registered actors in registration order.
func (r *ActorRegistry) Actors() []*Actor {
	out := make([]*Actor, len(r.order))
	copy(out, r.order)
	return out
}
