package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ndavenko/cityweather/internal/probe"
	"github.com/ndavenko/cityweather/internal/weather"
)

type fakeProvider struct {
	calls    int
	lastCity string
	reading  weather.Reading
	err      error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Current(ctx context.Context, city string) (weather.Reading, error) {
	f.calls++
	f.lastCity = city
	return f.reading, f.err
}

func newTestApp(t *testing.T, fp *fakeProvider) *fiber.App {
	t.Helper()

	app := fiber.New()
	pending := NewPendingStore(time.Minute)
	prb := probe.New(&http.Client{}, "http://127.0.0.1:0", time.Minute)
	RegisterRoutes(app, NewHandlers(fp, pending, prb))
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return resp, string(body)
}

func submitCity(t *testing.T, app *fiber.App, raw string) (*http.Response, string) {
	t.Helper()

	form := "city=" + strings.ReplaceAll(raw, " ", "+")
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return doRequest(t, app, req)
}

// sessionCookie extracts the session cookie issued by a successful submit.
func sessionCookie(t *testing.T, resp *http.Response) string {
	t.Helper()

	raw := resp.Header.Get("Set-Cookie")
	if raw == "" {
		t.Fatal("expected a session cookie on the response")
	}
	return strings.SplitN(raw, ";", 2)[0]
}

// TestSubmitWhitespaceOnly verifies that empty-after-trim input produces a
// validation message and neither a session write nor a redirect.
func TestSubmitWhitespaceOnly(t *testing.T) {
	for _, raw := range []string{"", "   ", " \t "} {
		fp := &fakeProvider{}
		app := newTestApp(t, fp)

		resp, body := submitCity(t, app, raw)
		if resp.StatusCode != fiber.StatusUnprocessableEntity {
			t.Fatalf("input %q: expected status %d, got %d", raw, fiber.StatusUnprocessableEntity, resp.StatusCode)
		}
		if !strings.Contains(body, "Please enter a city name.") {
			t.Errorf("input %q: expected validation message in body", raw)
		}
		if resp.Header.Get("Set-Cookie") != "" {
			t.Errorf("input %q: expected no session write", raw)
		}
		if resp.Header.Get("Location") != "" {
			t.Errorf("input %q: expected no redirect", raw)
		}
	}
}

// TestSubmitTrimsAndRedirects verifies that a valid submission stages the
// trimmed value and redirects to the result page.
func TestSubmitTrimsAndRedirects(t *testing.T) {
	fp := &fakeProvider{reading: weather.Reading{City: "London", Country: "GB", TempC: 10}}
	app := newTestApp(t, fp)

	resp, _ := submitCity(t, app, "  London  ")
	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", fiber.StatusSeeOther, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/weather" {
		t.Fatalf("expected redirect to /weather, got %q", loc)
	}

	cookie := sessionCookie(t, resp)
	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	req.Header.Set("Cookie", cookie)
	doRequest(t, app, req)

	if fp.lastCity != "London" {
		t.Fatalf("expected trimmed city %q to reach the provider, got %q", "London", fp.lastCity)
	}
}

// TestResultWithoutPendingRedirects verifies the Redirecting branch: no
// staged city means no fetch and a redirect back to the entry page.
func TestResultWithoutPendingRedirects(t *testing.T) {
	fp := &fakeProvider{}
	app := newTestApp(t, fp)

	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	resp, _ := doRequest(t, app, req)

	if resp.StatusCode != fiber.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", fiber.StatusSeeOther, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Fatalf("expected redirect to /, got %q", loc)
	}
	if fp.calls != 0 {
		t.Fatalf("expected no provider call, got %d", fp.calls)
	}
}

// TestResultSuccessRendersDerived verifies the Success state renders the
// reading with the derived Fahrenheit value.
func TestResultSuccessRendersDerived(t *testing.T) {
	fp := &fakeProvider{reading: weather.Reading{
		City:        "London",
		Country:     "GB",
		Condition:   "Clouds",
		Description: "broken clouds",
		Kind:        weather.ConditionCloudy,
		TempC:       20,
		Humidity:    81,
		WindSpeed:   4.1,
	}}
	app := newTestApp(t, fp)

	resp, _ := submitCity(t, app, "London")
	cookie := sessionCookie(t, resp)

	req := httptest.NewRequest(http.MethodGet, "/weather", nil)
	req.Header.Set("Cookie", cookie)
	resp, body := doRequest(t, app, req)

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"London, GB", "68", "broken clouds", "81", "4.1", `href="/"`} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
}

// TestResultErrorMessages verifies the Error state message for each failure
// class, and that the back link is present regardless of state.
func TestResultErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"city not found", weather.ErrCityNotFound, "City not found! Try another city."},
		{"unauthorized", weather.ErrUnauthorized, "Invalid API key."},
		{"unavailable", weather.ErrUnavailable, "Failed to fetch weather data. Try again later."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fp := &fakeProvider{err: tc.err}
			app := newTestApp(t, fp)

			resp, _ := submitCity(t, app, "Atlantis")
			cookie := sessionCookie(t, resp)

			req := httptest.NewRequest(http.MethodGet, "/weather", nil)
			req.Header.Set("Cookie", cookie)
			resp, body := doRequest(t, app, req)

			if resp.StatusCode != fiber.StatusOK {
				t.Fatalf("expected status 200, got %d", resp.StatusCode)
			}
			if !strings.Contains(body, tc.want) {
				t.Errorf("expected body to contain %q", tc.want)
			}
			if !strings.Contains(body, `href="/"`) {
				t.Error("expected back link on the error page")
			}
		})
	}
}

// TestReactivationRefetches verifies that every visit to the result page is
// a fresh activation: the session is re-read and the provider called again.
func TestReactivationRefetches(t *testing.T) {
	fp := &fakeProvider{reading: weather.Reading{City: "Oslo", Country: "NO", TempC: 3}}
	app := newTestApp(t, fp)

	resp, _ := submitCity(t, app, "Oslo")
	cookie := sessionCookie(t, resp)

	for i := 1; i <= 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/weather", nil)
		req.Header.Set("Cookie", cookie)
		doRequest(t, app, req)

		if fp.calls != i {
			t.Fatalf("expected %d provider calls, got %d", i, fp.calls)
		}
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, body := doRequest(t, app, req)

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	// Probe never started in tests, so its state is unknown.
	if !strings.Contains(body, `"unknown"`) || !strings.Contains(body, `"ok"`) {
		t.Errorf("unexpected health body: %s", body)
	}
}

func TestReadingViewRounding(t *testing.T) {
	view := newReadingView(weather.Reading{City: "Oslo", TempC: 21.37})

	if view.TempC != 21.4 {
		t.Errorf("expected TempC 21.4, got %v", view.TempC)
	}
	if view.TempF != 70.5 {
		t.Errorf("expected TempF 70.5, got %v", view.TempF)
	}
	if view.Location != "Oslo" {
		t.Errorf("expected bare city when country is empty, got %q", view.Location)
	}
}
