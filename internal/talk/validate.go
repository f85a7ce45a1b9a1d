package talk

// NormalizedScript is the output of Normalize: every default applied and
// every actor reference proven to resolve.
type NormalizedScript struct {
	// Actions holds the normalized records in input order.
	Actions []RawAction
	// Actors is the registry built from the script's actor list.
	Actors *ActorRegistry
}

// Normalize applies the defaulting rules to a raw script and validates it
// against its own actor list. It is a pure transform: deterministic for
// identical input and without side effects on the input script.
//
// Rules, applied per record in input order:
//   - Kind defaults to KindChoice iff a non-empty choice list is present
//     and no explicit kind was given, otherwise to KindTalk.
//   - A nil Actors list becomes the empty list.
//   - Next stays nil (terminal) when absent.
//
// Failure modes: *DuplicateActorError, *DuplicateIDError, and
// *UnknownActorError, each localized to the offending record. An empty
// script is valid and yields zero actions.
func Normalize(raw *RawScript) (*NormalizedScript, error) {
	reg := NewActorRegistry()
	for _, a := range raw.Actors {
		if _, err := reg.Register(a.Slug, a.Name, a.Asset); err != nil {
			return nil, err
		}
	}

	seen := make(map[ActionID]struct{}, len(raw.Script))
	actions := make([]RawAction, 0, len(raw.Script))
	for _, rec := range raw.Script {
		if _, dup := seen[rec.ID]; dup {
			return nil, &DuplicateIDError{ID: rec.ID}
		}
		seen[rec.ID] = struct{}{}

		for _, slug := range rec.Actors {
			if _, err := reg.Resolve(slug); err != nil {
				return nil, &UnknownActorError{Action: rec.ID, Slug: slug}
			}
		}

		norm := rec
		if norm.Kind == KindUnset {
			if len(norm.Choices) > 0 {
				norm.Kind = KindChoice
			} else {
				norm.Kind = KindTalk
			}
		}
		if norm.Actors == nil {
			norm.Actors = []ActorSlug{}
		}
		actions = append(actions, norm)
	}

	return &NormalizedScript{Actions: actions, Actors: reg}, nil
}

// validateNexts checks that every next and choice target points to an
// existing record. On choice records only the choice targets are checked,
// since their Next field carries no edge.
func validateNexts(actions []RawAction) error {
	ids := make(map[ActionID]struct{}, len(actions))
	for _, a := range actions {
		ids[a.ID] = struct{}{}
	}
	for _, a := range actions {
		if a.Kind == KindChoice {
			for _, c := range a.Choices {
				if _, ok := ids[c.Next]; !ok {
					return &DanglingReferenceError{From: a.ID, To: c.Next}
				}
			}
			continue
		}
		if a.Next != nil {
			if _, ok := ids[*a.Next]; !ok {
				return &DanglingReferenceError{From: a.ID, To: *a.Next}
			}
		}
	}
	return nil
}
