package api

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"taskly-api/domain"
	"taskly-api/placement"
)

// Register wires up all board routes on the provided Echo instance.
func Register(e *echo.Echo, board Board, logger *log.Logger) {
	e.GET("/api/board", getBoard(board, logger))
	e.GET("/api/export", exportBoard(board))
	e.POST("/api/columns/:id/tasks", addTask(board))
	e.PATCH("/api/tasks/:id", renameTask(board))
	e.POST("/api/tasks/:id/move", moveTask(board))
	e.DELETE("/api/tasks/:id", deleteTask(board))
	e.POST("/api/placement", resolvePlacement())
	e.POST("/api/drags", startDrag(board))
	e.POST("/api/drags/:id/drop", dropDrag(board))
	e.DELETE("/api/drags/:id", cancelDrag(board))
	e.GET("/healthz", healthz())
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func getBoard(board Board, logger *log.Logger) echo.HandlerFunc {
	return func(c echo.Context) (err error) {
		ctx := c.Request().Context()
		metrics, spanCtx := newBoardRequestMetrics(ctx, logger)
		if spanCtx != nil {
			c.SetRequest(c.Request().WithContext(spanCtx))
		}
		defer func() {
			metrics.Log(c.Response().Status, err)
		}()

		snapshotStart := time.Now()
		snap := board.Snapshot()
		metrics.ObserveSnapshot(time.Since(snapshotStart))

		total := 0
		for _, col := range snap.Columns {
			total += len(col.Tasks)
		}
		metrics.SetTasksReturned(total)
		metrics.SetColumnsReturned(len(snap.Columns))

		encodeStart := time.Now()
		err = c.JSON(http.StatusOK, snap)
		metrics.ObserveEncode(time.Since(encodeStart))
		if err != nil {
			metrics.SetErrorStage("encode_response")
		}
		return err
	}
}

// exportBoard returns the durable column-to-texts mapping for manual
// backup; it is the same blob the persister stores.
func exportBoard(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, board.Serialize())
	}
}

func addTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		columnID := domain.ColumnID(c.Param("id"))
		if !board.HasColumn(columnID) {
			return c.String(http.StatusNotFound, "unknown column")
		}

		var req addTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(req.Text) == "" {
			return c.String(http.StatusBadRequest, "empty task text")
		}

		id, err := board.AddTask(columnID, req.Text)
		if err != nil {
			c.Logger().Warnf("persist after add failed: %v", err)
		}
		if id == "" {
			return c.String(http.StatusBadRequest, "empty task text")
		}
		return c.JSON(http.StatusCreated, addTaskResponse{ID: id})
	}
}

func renameTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req renameTaskRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		if strings.TrimSpace(req.Text) == "" {
			return c.String(http.StatusBadRequest, "empty task text")
		}

		applied, err := board.RenameTask(c.Param("id"), req.Text)
		if err != nil {
			c.Logger().Warnf("persist after rename failed: %v", err)
		}
		if !applied {
			return c.String(http.StatusNotFound, "unknown task")
		}
		return c.JSON(http.StatusOK, board.Snapshot())
	}
}

func moveTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req moveRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		dest := domain.ColumnID(req.ColumnID)
		if !board.HasColumn(dest) {
			return c.String(http.StatusNotFound, "unknown column")
		}

		applied, err := board.MoveTask(c.Param("id"), dest, destIndex(&req))
		if err != nil {
			c.Logger().Warnf("persist after move failed: %v", err)
		}
		if !applied {
			return c.String(http.StatusNotFound, "unknown task")
		}
		return c.JSON(http.StatusOK, board.Snapshot())
	}
}

// deleteTask is idempotent: removing an id that is already gone answers
// the same way as removing one that existed.
func deleteTask(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, err := board.DeleteTask(c.Param("id"))
		if err != nil {
			c.Logger().Warnf("persist after delete failed: %v", err)
		}
		return c.NoContent(http.StatusNoContent)
	}
}

// resolvePlacement previews the insertion index for an in-flight drag
// without mutating anything.
func resolvePlacement() echo.HandlerFunc {
	return func(c echo.Context) error {
		var req placementRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		idx := placement.InsertIndex(req.PointerY, req.Cards)
		return c.JSON(http.StatusOK, placementResponse{Index: idx})
	}
}

func startDrag(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req startDragRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		dragID, ok := board.StartDrag(req.TaskID)
		if !ok {
			return c.String(http.StatusNotFound, "unknown task")
		}
		return c.JSON(http.StatusCreated, startDragResponse{DragID: dragID})
	}
}

func dropDrag(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req moveRequest
		if err := decodeBody(c, &req); err != nil {
			return c.String(http.StatusBadRequest, "invalid body")
		}
		dest := domain.ColumnID(req.ColumnID)
		if !board.HasColumn(dest) {
			return c.String(http.StatusNotFound, "unknown column")
		}

		consumed, err := board.DropDrag(c.Param("id"), dest, destIndex(&req))
		if err != nil {
			c.Logger().Warnf("persist after drop failed: %v", err)
		}
		if !consumed {
			return c.String(http.StatusNotFound, "unknown drag session")
		}
		return c.JSON(http.StatusOK, board.Snapshot())
	}
}

// cancelDrag is idempotent for the same reason deleteTask is: an
// abandoned gesture may race its own cleanup.
func cancelDrag(board Board) echo.HandlerFunc {
	return func(c echo.Context) error {
		board.CancelDrag(c.Param("id"))
		return c.NoContent(http.StatusNoContent)
	}
}

func destIndex(req *moveRequest) int {
	if req.Index != nil {
		return *req.Index
	}
	return placement.InsertIndex(req.PointerY, req.Cards)
}

func decodeBody(c echo.Context, v any) error {
	lr := io.LimitReader(c.Request().Body, requestMaxSize)
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
