package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/httpresp"
	"github.com/maxiG180/trimminflow/internal/middleware"
	ucAppointment "github.com/maxiG180/trimminflow/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

// AppointmentHandler serves the dashboard. The shop always comes from the token.
type AppointmentHandler struct {
	findSlots  *ucAppointment.FindSlots
	book       *ucAppointment.Book
	list       *ucAppointment.ListAppointments
	transition *ucAppointment.Transition
}

func NewAppointmentHandler(
	findSlots *ucAppointment.FindSlots,
	book *ucAppointment.Book,
	list *ucAppointment.ListAppointments,
	transition *ucAppointment.Transition,
) *AppointmentHandler {
	return &AppointmentHandler{
		findSlots:  findSlots,
		book:       book,
		list:       list,
		transition: transition,
	}
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	in, err := findSlotsInput(c, middleware.BarbershopID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	out, err := h.findSlots.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, out)
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in, err := req.toInput(middleware.BarbershopID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	in.Confirmed = req.Confirmed
	in.ActorID = middleware.UserID(c)

	res, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, res)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	barberID, err := optionalUint(c, "barber_id")
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	from := c.Query("from")
	if from == "" {
		from = c.Query("date")
	}

	items, err := h.list.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		BarbershopID: middleware.BarbershopID(c),
		BarberID:     barberID,
		From:         from,
		To:           c.Query("to"),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.List(c, items)
}

// ======================================================
// STATUS EVENTS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context) {
	h.applyStatus(c, domain.StatusConfirmed)
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.applyStatus(c, domain.StatusCancelled)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.applyStatus(c, domain.StatusCompleted)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.applyStatus(c, domain.StatusNoShow)
}

func (h *AppointmentHandler) applyStatus(c *gin.Context, target domain.Status) {
	id, err := idParam(c)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.transition.Execute(c.Request.Context(), ucAppointment.TransitionInput{
		BarbershopID:  middleware.BarbershopID(c),
		AppointmentID: id,
		Target:        target,
		ActorID:       middleware.UserID(c),
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, ap)
}
