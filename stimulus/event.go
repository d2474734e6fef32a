package stimulus

// Event is one firing of a neuron at an integer microsecond timestamp.
type Event struct {
	Neuron int
	Time   int64
}

// Expand truncates every base spike time to an integer and expands it into
// a burst of events, one per burst offset, keeping base-then-offset order.
func (p Policy) Expand(neuronID int, spikes []float64) []Event {
	events := make([]Event, 0, len(spikes)*len(p.BurstOffsets))

	for _, t := range spikes {
		base := int64(t)
		for _, o := range p.BurstOffsets {
			events = append(events, Event{Neuron: neuronID, Time: base + o})
		}
	}

	return events
}
