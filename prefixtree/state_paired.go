package prefixtree

// Tracks is the number of reads jointly decoded by the paired model.
const Tracks = 2

// Paired is the node state for joint decoding of two reads. Each track has
// its own time axis and its own last-written marker.
//
// Writes to different tracks touch disjoint memory and may run concurrently.
type Paired struct {
	tracks [Tracks]series
}

var _ State = (*Paired)(nil)

// NewPaired returns an empty state for tracks of horizon0 and horizon1 timesteps.
func NewPaired(horizon0, horizon1 int) *Paired {
	return &Paired{tracks: [Tracks]series{newSeries(horizon0), newSeries(horizon1)}}
}

// TrackProbabilityAt returns track i's forward log-probability at t.
func (p *Paired) TrackProbabilityAt(i, t int) float64 { return p.tracks[i].at(t) }

// ProbabilityAt returns the joint log-probability of both tracks at the same
// timestep, for reads assumed to be time-synchronized.
func (p *Paired) ProbabilityAt(t int) float64 {
	return p.tracks[0].at(t) + p.tracks[1].at(t)
}

// JointProbability returns track 0 at u plus track 1 at v, for reads compared
// at independent time offsets.
func (p *Paired) JointProbability(u, v int) float64 {
	return p.tracks[0].at(u) + p.tracks[1].at(v)
}

// LastProbability sums each track's value at its own last-set timestep.
func (p *Paired) LastProbability() float64 {
	sum := 0.0
	for i := range p.tracks {
		sum += p.tracks[i].lastValue()
	}

	return sum
}

// LastTimestep returns the most recently set timestep of track i.
func (p *Paired) LastTimestep(i int) (int, bool) { return p.tracks[i].lastStep() }

// Has reports whether track i was set at t.
func (p *Paired) Has(i, t int) bool { return p.tracks[i].has(t) }

// SetProbability stores v for track i at t; false when already set.
func (p *Paired) SetProbability(i, t int, v float64) bool { return p.tracks[i].set(t, v) }
