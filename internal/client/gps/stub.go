package gps

// stubService reports a permanent no-fix, used by tests and bench
// setups without a receiver.
type stubService struct{}

func (s *stubService) initialize() error {
	return nil
}

func (s *stubService) GetData() Fix {
	return Fix{}
}

func (s *stubService) Shutdown() error {
	return nil
}
