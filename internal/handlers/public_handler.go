package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	domain "github.com/maxiG180/trimminflow/internal/domain/appointment"
	"github.com/maxiG180/trimminflow/internal/httperr"
	"github.com/maxiG180/trimminflow/internal/httpresp"
	ucAppointment "github.com/maxiG180/trimminflow/internal/usecase/appointment"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	dir       domain.Directory
	catalog   *ucAppointment.GetCatalog
	findSlots *ucAppointment.FindSlots
	book      *ucAppointment.Book
}

func NewPublicHandler(
	dir domain.Directory,
	catalog *ucAppointment.GetCatalog,
	findSlots *ucAppointment.FindSlots,
	book *ucAppointment.Book,
) *PublicHandler {
	return &PublicHandler{
		dir:       dir,
		catalog:   catalog,
		findSlots: findSlots,
		book:      book,
	}
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) Catalog(c *gin.Context) {
	out, err := h.catalog.Execute(c.Request.Context(), c.Param("slug"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.OK(c, out)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	shopID, err := h.shopID(c)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	in, err := findSlotsInput(c, shopID)
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

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	shopID, err := h.shopID(c)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	in, err := req.toInput(shopID)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	// Public bookings always start pending.
	in.Confirmed = false

	res, err := h.book.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.FromError(c, err)
		return
	}
	httpresp.Created(c, res)
}

func (h *PublicHandler) shopID(c *gin.Context) (uint, error) {
	shop, err := h.dir.GetBarbershopBySlug(c.Request.Context(), c.Param("slug"))
	if errors.Is(err, domain.ErrNotFound) {
		return 0, httperr.NotFound("barbershop_not_found")
	}
	if err != nil {
		return 0, httperr.StoreUnavailable(err)
	}
	return shop.ID, nil
}

func findSlotsInput(c *gin.Context, barbershopID uint) (ucAppointment.FindSlotsInput, error) {
	serviceID, err := optionalUint(c, "service_id")
	if err != nil {
		return ucAppointment.FindSlotsInput{}, err
	}
	barberID, err := optionalUint(c, "barber_id")
	if err != nil {
		return ucAppointment.FindSlotsInput{}, err
	}
	granularity, err := optionalInt(c, "granularity")
	if err != nil {
		return ucAppointment.FindSlotsInput{}, err
	}

	from := c.Query("from")
	if from == "" {
		from = c.Query("date")
	}

	return ucAppointment.FindSlotsInput{
		BarbershopID:       barbershopID,
		BarberID:           barberID,
		ServiceID:          serviceID,
		From:               from,
		To:                 c.Query("to"),
		GranularityMinutes: granularity,
	}, nil
}
