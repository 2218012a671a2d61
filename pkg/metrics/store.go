package metrics

import "linkcfg/pkg/settings"

type instrumentedStore struct {
	settings.Store
	m *Metrics
}

// InstrumentStore wraps st so that commits and failures are counted.
func (m *Metrics) InstrumentStore(st settings.Store) settings.Store {
	return &instrumentedStore{Store: st, m: m}
}

func (s *instrumentedStore) SaveU8(key string, v uint8) error {
	return s.count("save", s.Store.SaveU8(key, v))
}

func (s *instrumentedStore) SaveString(key, v string) error {
	return s.count("save", s.Store.SaveString(key, v))
}

func (s *instrumentedStore) Commit() error {
	err := s.count("commit", s.Store.Commit())
	if err == nil {
		s.m.StoreCommits.Inc()
	}
	return err
}

func (s *instrumentedStore) count(op string, err error) error {
	if err != nil {
		s.m.StoreErrors.WithLabelValues(op).Inc()
	}
	return err
}
