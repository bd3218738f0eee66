package usecase

import "time"

// WithNow fixes the usecase clock for tests.
func (su *seriesUsecase) WithNow(now func() time.Time) { su.now = now }
