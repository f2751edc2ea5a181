package models

// CameraSample is the aggregate camera measurement for one participant over
// the whole meeting: counts of sampled intervals with camera on vs off.
// Read-only input to the allocator.
type CameraSample struct {
	OnUnits  int `json:"camera_on_mins"`
	OffUnits int `json:"camera_off_mins"`
}

// TotalUnits is the total number of sampled intervals.
func (s CameraSample) TotalUnits() int { return s.OnUnits + s.OffUnits }

// OnPercent is the camera-on share in percent, one decimal, 0 when no samples.
func (s CameraSample) OnPercent() float64 {
	total := s.TotalUnits()
	if total == 0 {
		return 0
	}
	return Round1(float64(s.OnUnits) / float64(total) * 100)
}
