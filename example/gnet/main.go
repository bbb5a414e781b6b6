package main

import (
	"bytes"

	"github.com/ferrmin/daylog"
	"github.com/ferrmin/daylog/compat"
	"github.com/panjf2000/gnet/v2"
)

// upperEcho answers each packet with its uppercased bytes and logs
// connection churn through daylog.
type upperEcho struct {
	gnet.BuiltinEventEngine
	log *daylog.Logger
}

func (s *upperEcho) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	s.log.Info("connection opened", "remote", c.RemoteAddr().String())
	return nil, gnet.None
}

func (s *upperEcho) OnClose(c gnet.Conn, err error) gnet.Action {
	if err != nil {
		s.log.Warn("connection closed", "remote", c.RemoteAddr().String(), "reason", err)
		return gnet.None
	}
	s.log.Debug("connection closed", "remote", c.RemoteAddr().String())
	return gnet.None
}

func (s *upperEcho) OnTraffic(c gnet.Conn) gnet.Action {
	data, _ := c.Next(-1)
	_, _ = c.Write(bytes.ToUpper(data))
	return gnet.None
}

func main() {
	logger, err := daylog.NewBuilder().
		Directory("/var/log/upper-echo").
		ErrorDirectory("/var/log/upper-echo/error").
		FailsafePath("/var/log/upper-echo-failsafe.log").
		LevelString("debug").
		EnableFileReports(true).
		Format("json").
		Build()
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// The structured adapter lifts key=value pairs out of the engine's own
	// messages into daylog fields
	engineLog := compat.NewStructuredGnetAdapter(logger)

	handler := &upperEcho{log: logger}
	if err := gnet.Run(handler, "tcp://127.0.0.1:7700",
		gnet.WithMulticore(true),
		gnet.WithLogger(engineLog),
	); err != nil {
		panic(err)
	}
}
