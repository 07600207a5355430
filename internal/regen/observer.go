// SPDX-License-Identifier: MPL-2.0

package regen

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/peter-r-g/inputactions/internal/project"
)

type (
	// Observer receives the progress of one regeneration pass. A pass calls
	// OnStage for every stage it enters; on failure it calls OnError once and
	// then OnStage(StageErrored). Calls for a pass come from one goroutine.
	Observer interface {
		OnStage(stage Stage)
		OnError(kind ErrorKind, err error)
	}

	// ObserverFactory creates the observer for a new pass over p.
	ObserverFactory func(p project.Project) Observer

	// MultiObserver forwards every call to each of its observers in order.
	MultiObserver []Observer

	// LogObserver writes pass progress to a logger.
	LogObserver struct {
		logger  *log.Logger
		project string
		started time.Time
	}

	nopObserver struct{}
)

// NewLogObserver returns a LogObserver for a pass over p. Intermediate stages
// log at debug level; outcomes log at info or error level.
func NewLogObserver(logger *log.Logger, p project.Project) *LogObserver {
	return &LogObserver{
		logger:  logger,
		project: p.Title(),
		started: time.Now(),
	}
}

// OnStage implements Observer.
func (o *LogObserver) OnStage(stage Stage) {
	switch stage {
	case StageFinished:
		o.logger.Info("input actions generated", "project", o.project, "took", time.Since(o.started).Round(time.Millisecond))
	case StageErrored:
		// Already reported by OnError.
	default:
		o.logger.Debug(stage.String(), "project", o.project)
	}
}

// OnError implements Observer.
func (o *LogObserver) OnError(kind ErrorKind, err error) {
	o.logger.Error("input action generation failed", "project", o.project, "kind", kind, "error", err)
}

// LogObserverFactory returns an ObserverFactory producing LogObservers.
func LogObserverFactory(logger *log.Logger) ObserverFactory {
	return func(p project.Project) Observer {
		return NewLogObserver(logger, p)
	}
}

// Fanout combines factories into one producing a MultiObserver. Nil factories
// are skipped.
func Fanout(factories ...ObserverFactory) ObserverFactory {
	return func(p project.Project) Observer {
		multi := make(MultiObserver, 0, len(factories))
		for _, f := range factories {
			if f != nil {
				multi = append(multi, f(p))
			}
		}
		return multi
	}
}

// OnStage implements Observer.
func (m MultiObserver) OnStage(stage Stage) {
	for _, o := range m {
		o.OnStage(stage)
	}
}

// OnError implements Observer.
func (m MultiObserver) OnError(kind ErrorKind, err error) {
	for _, o := range m {
		o.OnError(kind, err)
	}
}

func (nopObserver) OnStage(Stage)            {}
func (nopObserver) OnError(ErrorKind, error) {}
