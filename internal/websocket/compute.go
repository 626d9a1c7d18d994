package websocket

import (
	"errors"

	"taxreturn/internal/service"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// maxFrameSize bounds one declaration frame.
const maxFrameSize = 1 << 20

// ComputeReply is sent back for every declaration frame.
type ComputeReply struct {
	Seq   int64                    `json:"seq"`
	Data  *service.ComputeResponse `json:"data,omitempty"`
	Error string                   `json:"error,omitempty"`
}

type computeFrame struct {
	Seq         int64           `json:"seq"`
	Declaration json.RawMessage `json:"declaration"`
}

// ComputeFrame answers one frame. A frame is either {"seq": n, "declaration": {...}} or a bare
// declaration; seq lets the form drop replies that arrive after a newer keystroke.
func ComputeFrame(tax service.TaxService, frame []byte) ComputeReply {
	var envelope computeFrame
	if err := json.Unmarshal(frame, &envelope); err != nil {
		return ComputeReply{Error: err.Error()}
	}
	body := []byte(envelope.Declaration)
	if len(body) == 0 {
		body = frame
	}

	d, err := tax.DecodeDeclaration(body)
	if err != nil {
		return ComputeReply{Seq: envelope.Seq, Error: err.Error()}
	}
	computed := tax.Compute(d)
	return ComputeReply{Seq: envelope.Seq, Data: &computed}
}

// ServeCompute recomputes the declaration on every frame the client sends. It needs no
// token: the computation is stateless and stores nothing.
func ServeCompute(tax service.TaxService, log *zap.Logger, c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer func() {
		_ = conn.Close()
	}()
	conn.SetReadLimit(maxFrameSize)

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				log.Debug("compute socket closed", zap.Error(err))
			}
			return
		}

		reply, err := json.Marshal(ComputeFrame(tax, frame))
		if err != nil {
			log.Error("failed to encode compute reply", zap.Error(err))
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			return
		}
	}
}

// Compile-time check that the hub satisfies the service publisher.
var _ service.Publisher = (*Hub)(nil)
