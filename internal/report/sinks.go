package report

import (
	"github.com/sirupsen/logrus"

	"p4rti/internal/portscan"
)

// Multi 依次转发给每个 sink
type Multi []portscan.Sink

func NewMulti(sinks ...portscan.Sink) Multi {
	var m Multi
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m Multi) Report(r portscan.PortResult) {
	for _, s := range m {
		s.Report(r)
	}
}

// Log 把开放端口写进日志 (配合 --log-file 留档)
type Log struct {
	log logrus.FieldLogger
}

func NewLog(l logrus.FieldLogger) *Log {
	return &Log{log: l}
}

func (l *Log) Report(r portscan.PortResult) {
	if !r.IsOpen() {
		return
	}
	l.log.WithFields(logrus.Fields{
		"port":    r.Port,
		"service": ServiceName(r.Port),
	}).Info("port open")
}
