package kernel

// Version is the optimistic concurrency counter of a mutable aggregate.
// Repositories update a row only when the stored version equals Version()
// and call Advance once the write succeeded.
type Version struct {
	value int64
}

func RestoreVersion(value int64) Version {
	return Version{value: value}
}

func (v Version) Version() int64 {
	return v.value
}

func (v *Version) Advance() {
	v.value++
}
