package model

// BucketKey identifies one time bucket of one store day.
type BucketKey struct {
	Store      string
	Year       int
	DayIndex   int
	TimeBucket float64
}

// PeriodKey identifies one register within one time bucket.
type PeriodKey struct {
	BucketKey
	RegisterID string
}

// RegisterPeriodVolume is one cell of the dense register-period grid. The
// grid includes explicit zero rows for register-period combinations without
// invoices; a populated grid is never mutated.
type RegisterPeriodVolume struct {
	Store            string
	RegisterID       string
	Year             int
	DayIndex         int
	TimeBucket       float64
	InvoiceCount     int
	TotalElapsedTime float64
	TotalItems       int
	TotalSales       float64
}

// Key returns the period identity of the volume row.
func (v *RegisterPeriodVolume) Key() PeriodKey {
	return PeriodKey{
		BucketKey: BucketKey{
			Store:      v.Store,
			Year:       v.Year,
			DayIndex:   v.DayIndex,
			TimeBucket: v.TimeBucket,
		},
		RegisterID: v.RegisterID,
	}
}

// BucketActivity is the per-bucket classification output: the store-wide
// invoice total for the bucket and its resulting activity level.
type BucketActivity struct {
	BucketKey
	BucketTotal int
	Level       ActivityLevel
}

// RegisterPeriod is the per-register classification output: the underlying
// volume row joined with its bucket's activity level, the register's device
// type, and the manned/unmanned decision.
type RegisterPeriod struct {
	RegisterPeriodVolume
	DeviceType DeviceType
	Level      ActivityLevel
	Status     Status
}
