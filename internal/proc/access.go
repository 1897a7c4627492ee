package proc

// PID returns the process id of a supervised preview, or 0.
func (s *Supervisor) PID(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pv, ok := s.previews[name]; ok && pv.Cmd != nil && pv.Cmd.Process != nil {
		return pv.Cmd.Process.Pid
	}
	return 0
}

// SetURL records the scraped preview server URL for name.
func (s *Supervisor) SetURL(name, url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if pv, ok := s.previews[name]; ok {
		pv.URL = url
	}
}
