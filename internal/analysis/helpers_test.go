package analysis

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func errorsIsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
