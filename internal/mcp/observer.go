package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/ctoolsd/internal/logging"
)

// sessionObserver forwards pipeline progress to the requesting MCP host as
// log notifications, mirroring each message to the server logger. Delivery
// is best effort; a failed notification never fails the tool call.
type sessionObserver struct {
	session *mcp.ServerSession
	logger  *logging.Logger
}

func newSessionObserver(req *mcp.CallToolRequest, logger *logging.Logger) *sessionObserver {
	o := &sessionObserver{logger: logger}
	if req != nil {
		o.session = req.Session
	}
	return o
}

func (o *sessionObserver) Info(ctx context.Context, msg string) {
	o.logger.Info(ctx, msg)
	o.notify(ctx, "info", msg)
}

func (o *sessionObserver) Error(ctx context.Context, msg string) {
	o.logger.Error(ctx, msg)
	o.notify(ctx, "error", msg)
}

func (o *sessionObserver) notify(ctx context.Context, level mcp.LoggingLevel, msg string) {
	if o.session == nil {
		return
	}
	if err := o.session.Log(ctx, &mcp.LoggingMessageParams{
		Logger: "ctool",
		Level:  level,
		Data:   msg,
	}); err != nil {
		o.logger.Debug(ctx, "failed to deliver log notification", zap.Error(err))
	}
}
