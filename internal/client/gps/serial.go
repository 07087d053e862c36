package gps

import (
	"bufio"
	"errors"
	"sync"

	"go.bug.st/serial"
	"go.uber.org/zap"

	"github.com/subterra/gpr-client/pkg/log"
)

// serialService keeps the last fix received from an NMEA receiver on
// a serial port. The reader goroutine runs until Shutdown closes the
// port.
type serialService struct {
	conf SerialConfig

	port serial.Port

	mu  sync.RWMutex
	fix Fix

	wg sync.WaitGroup
}

func (s *serialService) initialize() error {
	if s.conf.Port == "" {
		return errors.New("no serial port configured")
	}

	port, err := serial.Open(s.conf.Port, &serial.Mode{BaudRate: s.conf.BaudRate})
	if err != nil {
		return err
	}

	s.port = port

	s.wg.Add(1)
	go s.readLoop()

	return nil
}

func (s *serialService) readLoop() {
	defer s.wg.Done()

	scanner := bufio.NewScanner(s.port)
	for scanner.Scan() {
		fix, err := ParseGGA(scanner.Text())
		if err != nil {
			// the receiver mixes in RMC/GSV/... sentences, skip them quietly
			if !errors.Is(err, &ErrNotGGA{}) {
				log.Debug("dropped unparsable NMEA sentence", zap.Error(err))
			}
			continue
		}

		s.mu.Lock()
		s.fix = fix
		s.mu.Unlock()
	}

	log.Info("NMEA reader stopped", zap.Error(scanner.Err()))
}

func (s *serialService) GetData() Fix {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fix
}

func (s *serialService) Shutdown() error {
	err := s.port.Close()
	s.wg.Wait()
	return err
}
