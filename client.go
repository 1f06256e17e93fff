package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"gridworld/astar"
	"gridworld/models"
)

// watchPlan sends the map to a running server and prints the stream of
// frames that comes back.
func watchPlan(ctx context.Context, a *cliArgs, logger *zap.Logger, stdout, stderr io.Writer) int {
	world, err := models.LoadMap(a.filename)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_USAGE
	}
	var m bytes.Buffer
	if err := models.FormatMap(&m, world.Snapshot()); err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_USAGE
	}
	req := models.PlanRequest{
		Map:           m.String(),
		TieBreak:      a.cfg.TieBreak,
		Omniscient:    a.cfg.Omniscient,
		MaxExpansions: a.cfg.MaxExpansions,
	}
	r := models.NewRenderer(a.cfg.PrettyPrint, useColor(a.cfg.Color, stdout))

	result, err := watch(ctx, a.watch, req, r, stdout, logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return EXIT_NO_PATH
	}
	if result == nil || !result.Found {
		return EXIT_NO_PATH
	}
	return EXIT_OK
}

// watch dials addr, streams one plan and returns the final result. An
// interrupt through ctx closes the connection cleanly.
func watch(ctx context.Context, addr string, req models.PlanRequest, r *models.Renderer, out io.Writer, logger *zap.Logger) (*models.PlanResult, error) {
	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws/plan"}
	logger.Debug("Connecting.", zap.String("url", u.String()))
	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", u.String(), err)
	}
	defer c.Close()

	if err := c.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("send plan request: %w", err)
	}

	var (
		result  *models.PlanResult
		readErr error
	)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var f models.Frame
			if err := c.ReadJSON(&f); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					readErr = err
				}
				return
			}
			if err := printFrame(out, r, f); err != nil {
				readErr = err
				return
			}
			if f.Type == models.FRAME_DONE {
				result = f.Result
				return
			}
		}
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Info("Interrupted.")
		// Cleanly close the connection by sending a close message and then
		// waiting (with timeout) for the server to close the connection.
		err := c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		if err != nil {
			return nil, fmt.Errorf("write close: %w", err)
		}
		select {
		case <-done:
		case <-time.After(time.Second):
		}
		return nil, ctx.Err()
	}
	if readErr != nil {
		return nil, fmt.Errorf("read frame: %w", readErr)
	}
	return result, nil
}

func printFrame(w io.Writer, r *models.Renderer, f models.Frame) error {
	switch f.Type {
	case models.FRAME_EPISODE:
		start := astar.Point{}
		if f.Start != nil {
			start = f.Start.Point()
		}
		fmt.Fprintf(w, "episode %d from %s: %d steps, %d expansions\n",
			f.Episode, r.FormatPoint(start), len(f.Path)-1, f.Expansions)
		return r.RenderGrid(w, f.Snapshot())
	case models.FRAME_WALK:
		if f.Agent != nil {
			_, err := fmt.Fprintf(w, "agent at %s\n", r.FormatPoint(f.Agent.Point()))
			return err
		}
	case models.FRAME_DONE:
		if f.Result == nil || !f.Result.Found {
			msg := "No path"
			if f.Result != nil && f.Result.Ret != models.RET_NO_PATH && f.Result.Err != "" {
				msg = f.Result.Err
			}
			_, err := fmt.Fprintln(w, msg)
			return err
		}
		fmt.Fprintf(w, "done after %d episodes, %d expansions\n", f.Result.Episodes, f.Result.Expansions)
		return r.RenderPath(w, f.Result.Points())
	}
	return nil
}
