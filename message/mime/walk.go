package mime

// Processor is a callback that can be passed to Walk to do any kind of
// generic processing of an entity and its children.
//
// The Processor is given an entity and the ancestry of the entity. If
// len(parents) is zero, then this is the entity Walk was called upon.
//
// The Processor may return an error to cause Walk to terminate immediately
// and return that error.
type Processor func(e *Entity, parents []*Entity) error

// Walk calls the Processor for the entity and then for each of its children,
// depth first, in order. It stops at the first error.
func Walk(processor Processor, e *Entity) error {
	parents := make([]*Entity, 0, 10)
	return walk(processor, e, parents)
}

func walk(processor Processor, e *Entity, parents []*Entity) error {
	if err := processor(e, parents); err != nil {
		return err
	}

	parents = append(parents, e)
	for _, child := range e.Children {
		if err := walk(processor, child, parents); err != nil {
			return err
		}
	}

	return nil
}

// Flatten returns the parts of the tree in depth-first order.
func Flatten(e *Entity) []*Part {
	var parts []*Part
	_ = Walk(func(e *Entity, _ []*Entity) error {
		if e.Part != nil {
			parts = append(parts, e.Part)
		}
		return nil
	}, e)

	return parts
}
