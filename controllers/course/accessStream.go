package controllers

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"lms/database"
	"lms/middleware"
	"lms/notify"
	courseService "lms/services/course"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// StreamAccessStatus pushes access-state changes for (caller, course) over
// server-sent events, so clients subscribe instead of polling the resolver.
// The subscription lives as long as the connection; a dropped client is
// unsubscribed on the first failed flush.
func StreamAccessStatus(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	state, course, err := courseService.ResolveAccess(database.Database.Db, userID, uint(courseID))
	if err != nil {
		return domainErrorResponse(c, err)
	}

	events, cancel := notify.DefaultHub.Subscribe(userID, course.ID)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	initial := notify.AccessEvent{
		UserID:   userID,
		CourseID: course.ID,
		Status:   string(state),
		At:       time.Now(),
	}

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		if err := writeAccessEvent(w, initial); err != nil {
			return
		}

		keepalive := time.NewTicker(25 * time.Second)
		defer keepalive.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeAccessEvent(w, ev); err != nil {
					return
				}
			case <-keepalive.C:
				if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

func writeAccessEvent(w *bufio.Writer, ev notify.AccessEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: access\ndata: %s\n\n", payload); err != nil {
		return err
	}
	return w.Flush()
}
