package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-pathtracer/pkg/loaders"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var renderCounter atomic.Int64

// ProgressMessage reports the completed percentage of a render
type ProgressMessage struct {
	Type    string `json:"type"` // "progress"
	Percent int    `json:"percent"`
}

// LogMessage forwards a render log line to the client console
type LogMessage struct {
	Type string `json:"type"` // "log"
	ConsoleMessage
}

// CompleteMessage precedes the binary PNG frame of a finished render
type CompleteMessage struct {
	Type         string `json:"type"` // "complete"
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	TotalSamples int    `json:"totalSamples"`
	Workers      int    `json:"workers"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// ErrorMessage reports a render failure
type ErrorMessage struct {
	Type  string `json:"type"` // "error"
	Error string `json:"error"`
}

type outbound struct {
	messageType int
	data        []byte
}

// renderStream owns the write side of one render connection
type renderStream struct {
	conn    *websocket.Conn
	send    chan outbound
	console chan ConsoleMessage
	done    chan struct{} // closed when the writer exits
	cancel  context.CancelFunc
}

func newRenderStream(conn *websocket.Conn, cancel context.CancelFunc) *renderStream {
	return &renderStream{
		conn:    conn,
		send:    make(chan outbound, 256),
		console: make(chan ConsoleMessage, 64),
		done:    make(chan struct{}),
		cancel:  cancel,
	}
}

// readLoop discards client frames and cancels the render once the client goes away
func (rs *renderStream) readLoop() {
	for {
		if _, _, err := rs.conn.ReadMessage(); err != nil {
			rs.cancel()
			return
		}
	}
}

func (rs *renderStream) writeLoop() {
	defer close(rs.done)
	for {
		select {
		case msg, ok := <-rs.send:
			if !ok {
				rs.drainConsole()
				_ = rs.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = rs.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "render finished"))
				return
			}
			if err := rs.write(msg); err != nil {
				log.Printf("websocket write: %v", err)
				rs.cancel()
				return
			}
		case c := <-rs.console:
			if err := rs.writeConsole(c); err != nil {
				log.Printf("websocket write: %v", err)
				rs.cancel()
				return
			}
		}
	}
}

func (rs *renderStream) drainConsole() {
	for {
		select {
		case c := <-rs.console:
			if err := rs.writeConsole(c); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (rs *renderStream) write(msg outbound) error {
	if err := rs.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return rs.conn.WriteMessage(msg.messageType, msg.data)
}

func (rs *renderStream) writeConsole(c ConsoleMessage) error {
	data, err := json.Marshal(LogMessage{Type: "log", ConsoleMessage: c})
	if err != nil {
		return err
	}
	return rs.write(outbound{messageType: websocket.TextMessage, data: data})
}

// enqueue hands a frame to the writer, returning false once the writer is gone
func (rs *renderStream) enqueue(msg outbound) bool {
	select {
	case rs.send <- msg:
		return true
	case <-rs.done:
		return false
	}
}

func (rs *renderStream) sendJSON(v interface{}) bool {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode message: %v", err)
		return false
	}
	return rs.enqueue(outbound{messageType: websocket.TextMessage, data: data})
}

// finish flushes queued frames, closes the connection cleanly and waits for the writer
func (rs *renderStream) finish() {
	close(rs.send)
	<-rs.done
}

// handleRender upgrades to a websocket, streams progress while rendering and
// finishes with a JSON summary followed by the PNG as a binary frame
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderRequest(r.URL.Query())
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	raytracer, err := sceneObj.NewRaytracer()
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}
	defer conn.Close()

	// Client disconnection cancels the render
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	stream := newRenderStream(conn, cancel)
	go stream.readLoop()
	go stream.writeLoop()
	defer stream.finish()

	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	logger := NewWebLogger(renderID, stream.console)
	raytracer.SetLogger(logger)
	defer func() {
		if n := logger.Dropped(); n > 0 {
			log.Printf("render %s: %d console lines dropped", renderID, n)
		}
	}()

	lastPercent := -1
	raytracer.SetProgressFunc(func(percent int) {
		if percent == lastPercent {
			return
		}
		lastPercent = percent
		stream.sendJSON(ProgressMessage{Type: "progress", Percent: percent})
	})

	img, stats, err := raytracer.RenderParallel(ctx, 0)
	if err != nil {
		stream.sendJSON(ErrorMessage{Type: "error", Error: fmt.Sprintf("Render error: %v", err)})
		return
	}

	var buf bytes.Buffer
	if err := loaders.EncodePNG(&buf, img); err != nil {
		stream.sendJSON(ErrorMessage{Type: "error", Error: fmt.Sprintf("failed to encode image: %v", err)})
		return
	}

	stream.sendJSON(CompleteMessage{
		Type:         "complete",
		Width:        stats.Width,
		Height:       stats.Height,
		TotalSamples: stats.TotalSamples,
		Workers:      stats.Workers,
		ElapsedMs:    stats.Duration.Milliseconds(),
	})
	stream.enqueue(outbound{messageType: websocket.BinaryMessage, data: buf.Bytes()})
}
