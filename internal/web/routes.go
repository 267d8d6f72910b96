package web

import (
	"log"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ndavenko/cityweather/internal/probe"
	"github.com/ndavenko/cityweather/internal/weather"
)

var validate = validator.New()

// resultState tracks which branch of the result-page activation sequence a
// request ended in. Redirecting and Loading resolve within the handler; only
// Success and Error reach a rendered page.
type resultState string

const (
	stateSuccess resultState = "success"
	stateError   resultState = "error"
)

// Handlers holds the dependencies of the HTTP handlers.
type Handlers struct {
	provider weather.Provider
	pending  *PendingStore
	probe    *probe.Probe
}

func NewHandlers(provider weather.Provider, pending *PendingStore, p *probe.Probe) *Handlers {
	return &Handlers{
		provider: provider,
		pending:  pending,
		probe:    p,
	}
}

// RegisterRoutes wires the two pages and the health endpoint into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	app.Get("/", h.EntryPage)
	app.Post("/", h.Submit)
	app.Get("/weather", h.ResultPage)
	app.Get("/health", h.Health)
}

// entryPage is the template model for the entry view.
type entryPage struct {
	Error string
}

// EntryPage renders the city form.
func (h *Handlers) EntryPage(c *fiber.Ctx) error {
	return render(c, fiber.StatusOK, "entry.html", entryPage{})
}

// submitForm carries the entry-view submission; City is validated after
// trimming.
type submitForm struct {
	City string `form:"city" validate:"required"`
}

// Submit validates the submitted city name. An empty-after-trim value
// re-renders the form with a validation message and touches neither the
// session nor the result page; a valid one is staged and the client is
// redirected to /weather.
func (h *Handlers) Submit(c *fiber.Ctx) error {
	var form submitForm
	if err := c.BodyParser(&form); err != nil {
		return render(c, fiber.StatusUnprocessableEntity, "entry.html", entryPage{
			Error: "Please enter a city name.",
		})
	}

	form.City = strings.TrimSpace(form.City)
	if err := validate.Struct(form); err != nil {
		return render(c, fiber.StatusUnprocessableEntity, "entry.html", entryPage{
			Error: "Please enter a city name.",
		})
	}

	if err := h.pending.StageCity(c, form.City); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store city")
	}

	return c.Redirect("/weather", fiber.StatusSeeOther)
}

// resultPage is the template model for the result view.
type resultPage struct {
	State   resultState
	City    string
	Message string
	Reading *readingView
}

// readingView is a Reading prepared for display: location joined, both
// temperatures rounded to one decimal.
type readingView struct {
	Location    string
	Condition   string
	Description string
	Kind        weather.Condition
	TempC       float64
	TempF       float64
	Humidity    float64
	WindSpeed   float64
}

func newReadingView(r weather.Reading) *readingView {
	location := r.City
	if r.Country != "" {
		location = r.City + ", " + r.Country
	}

	return &readingView{
		Location:    location,
		Condition:   r.Condition,
		Description: r.Description,
		Kind:        r.Kind,
		TempC:       weather.Round1(r.TempC),
		TempF:       weather.Round1(r.TempF()),
		Humidity:    r.Humidity,
		WindSpeed:   r.WindSpeed,
	}
}

// ResultPage runs the activation sequence: read the staged city, redirect to
// the entry page when nothing is staged, otherwise perform exactly one
// provider lookup and render the reading or a classified error. Every GET is
// a fresh activation, so revisiting the page re-reads the session and fetches
// again.
func (h *Handlers) ResultPage(c *fiber.Ctx) error {
	city, err := h.pending.PendingCity(c)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to read session")
	}

	if city == "" {
		// Redirecting: nothing staged, so there is nothing to fetch.
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	// Loading: the request context is canceled when the client goes away,
	// which also abandons the in-flight lookup.
	reading, err := h.provider.Current(c.Context(), city)
	if err != nil {
		log.Printf("ERROR: provider %s lookup failed for %q: %v", h.provider.Name(), city, err)
		return render(c, fiber.StatusOK, "result.html", resultPage{
			State:   stateError,
			City:    city,
			Message: weather.UserMessage(err),
		})
	}

	return render(c, fiber.StatusOK, "result.html", resultPage{
		State:   stateSuccess,
		City:    city,
		Reading: newReadingView(reading),
	})
}

// Health reports liveness plus the latest provider-probe outcome.
func (h *Handlers) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "cityweather",
		"provider": h.probe.Status(),
	})
}
