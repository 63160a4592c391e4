package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"

	"github.com/rs/zerolog"

	"github.com/elektrokombinacija/uav-fleet-controller/internal/model"
	"github.com/elektrokombinacija/uav-fleet-controller/internal/worldmap"
)

// TickHandler processes one decoded tick request and returns the outbound
// UAV commands and purchase directives for that tick.
type TickHandler func(ctx context.Context, req TickRequest) (commands []UAVCommand, purchases []Purchase, err error)

// Conn is a single handshake-and-serve session against the game server,
// mirroring comm.py's Communication class: connect, authorize, then loop
// on recv/send until the match ends.
type Conn struct {
	conn  net.Conn
	token string
	log   zerolog.Logger
}

// Dial connects to host:port and returns an unauthorized Conn.
func Dial(host, port string, token string, log zerolog.Logger) (*Conn, error) {
	addr := net.JoinHostPort(host, port)
	c, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("server: dial %s: %w", addr, err)
	}
	return &Conn{conn: c, token: token, log: log}, nil
}

// Authorize runs the welcome/sendtoken/ready handshake (comm.py authorize)
// and returns the initial world map and starting UAV roster.
func (c *Conn) Authorize() (*worldmap.WorldMap, []model.UAV, error) {
	if err := DiscardFrame(c.conn); err != nil {
		return nil, nil, fmt.Errorf("server: welcome frame: %w", err)
	}

	sendToken, err := json.Marshal(struct {
		Action string `json:"action"`
		Token  string `json:"token"`
	}{Action: "sendtoken", Token: c.token})
	if err != nil {
		return nil, nil, fmt.Errorf("server: marshal sendtoken: %w", err)
	}
	if err := WriteFrame(c.conn, sendToken); err != nil {
		return nil, nil, fmt.Errorf("server: send sendtoken: %w", err)
	}

	resultPayload, err := ReadFrame(c.conn)
	if err != nil {
		return nil, nil, fmt.Errorf("server: read auth result: %w", err)
	}
	var result wireAuthResult
	if err := json.Unmarshal(resultPayload, &result); err != nil {
		return nil, nil, fmt.Errorf("server: decode auth result: %w", err)
	}
	if result.Result != 0 {
		return nil, nil, fmt.Errorf("server: authorization rejected (result=%d)", result.Result)
	}

	ready, err := json.Marshal(struct {
		Action string `json:"action"`
	}{Action: "ready"})
	if err != nil {
		return nil, nil, fmt.Errorf("server: marshal ready: %w", err)
	}
	if err := WriteFrame(c.conn, ready); err != nil {
		return nil, nil, fmt.Errorf("server: send ready: %w", err)
	}

	mapPayload, err := ReadFrame(c.conn)
	if err != nil {
		return nil, nil, fmt.Errorf("server: read map frame: %w", err)
	}
	wm, uavs, err := DecodeMapFrame(mapPayload)
	if err != nil {
		return nil, nil, err
	}
	c.log.Info().Int("initial_uavs", len(uavs)).Msg("authorized and received map frame")
	return wm, uavs, nil
}

// Serve blocks, reading one tick request per iteration and dispatching it to
// handle, until the server reports the match ended or the connection closes.
// It owns the conn lifetime, mirroring vimy-core/ipc's ReadLoop.
func (c *Conn) Serve(ctx context.Context, handle TickHandler) error {
	defer c.conn.Close()

	for {
		payload, err := ReadFrame(c.conn)
		if err != nil {
			return fmt.Errorf("server: read tick request: %w", err)
		}
		req, err := DecodeTickRequest(payload)
		if err != nil {
			return err
		}

		log := c.log.With().Int("tick", req.Time).Logger()
		if req.Ended() {
			log.Info().Msg("match ended")
			return nil
		}

		commands, purchases, err := handle(ctx, req)
		if err != nil {
			log.Error().Err(err).Msg("tick handler error, sending empty response")
			commands, purchases = nil, nil
		}

		resp, err := EncodeTickResponse(req.Token, commands, purchases)
		if err != nil {
			return err
		}
		if err := WriteFrame(c.conn, resp); err != nil {
			return fmt.Errorf("server: write tick response: %w", err)
		}
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}
