package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/telemetree/weathersense/internal/predict"
	"github.com/telemetree/weathersense/internal/store"
	"github.com/telemetree/weathersense/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, weatherSvc *weather.Service, st *store.CSVStore, predictor *predict.Service) {
	api := app.Group("/api")

	api.Get("/initialize", func(c *fiber.Ctx) error {
		metrics, err := predictor.Initialize()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "initialize model: "+err.Error())
		}
		return c.JSON(fiber.Map{
			"status":  "success",
			"message": "model initialized and trained successfully",
			"metrics": metrics,
		})
	})

	api.Get("/predict", func(c *fiber.Ctx) error {
		predictions, err := predictor.PredictNext()
		if err != nil {
			switch {
			case errors.Is(err, predict.ErrNotInitialized):
				return fiber.NewError(fiber.StatusBadRequest, "model not initialized; call /api/initialize first")
			case errors.Is(err, predict.ErrInsufficientData):
				return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "predict: "+err.Error())
			}
		}
		return c.JSON(fiber.Map{
			"status":      "success",
			"predictions": predictions,
		})
	})

	wapi := api.Group("/weather")

	wapi.Get("/current", func(c *fiber.Ctx) error {
		current, err := weatherSvc.Current(c.UserContext(), c.Query("city"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   current,
		})
	})

	wapi.Get("/forecast", func(c *fiber.Ctx) error {
		var q forecastQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		days, err := weatherSvc.Forecast(c.UserContext(), q.City, q.Days)
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   days,
		})
	})

	wapi.Get("/analysis", func(c *fiber.Ctx) error {
		var q analysisQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		analysis, err := st.Summarize(q.City, q.Days)
		if err != nil {
			if errors.Is(err, store.ErrNoData) {
				return fiber.NewError(fiber.StatusNotFound, "no data available for the specified period")
			}
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   analysis,
		})
	})

	wapi.Get("/historical", func(c *fiber.Ctx) error {
		start, err := parseDateQuery(c, "start_date")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		end, err := parseDateQuery(c, "end_date")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		obs, err := st.History(c.Query("city"), start, end)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   obs,
		})
	})

	wapi.Get("/recent", func(c *fiber.Ctx) error {
		var q recentQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		readings, err := st.Recent(q.City, q.Limit)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   readings,
		})
	})

	wapi.Get("/alerts", func(c *fiber.Ctx) error {
		alerts, err := weatherSvc.Alerts(c.UserContext(), c.Query("city"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.JSON(fiber.Map{
			"status": "success",
			"data":   alerts,
		})
	})
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	City string
	Days int `validate:"min=1,max=7"`
}

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	days, err := intQuery(c, "days", 5)
	if err != nil {
		return err
	}
	q.Days = days
	return validate.Struct(q)
}

// analysisQuery holds query parameters for the analysis endpoint.
type analysisQuery struct {
	City string
	Days int `validate:"min=1,max=3650"`
}

func (q *analysisQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	days, err := intQuery(c, "days", 30)
	if err != nil {
		return err
	}
	q.Days = days
	return validate.Struct(q)
}

// recentQuery holds query parameters for the recent endpoint.
type recentQuery struct {
	City  string
	Limit int `validate:"min=1,max=1000"`
}

func (q *recentQuery) bind(c *fiber.Ctx) error {
	q.City = c.Query("city")
	limit, err := intQuery(c, "limit", 10)
	if err != nil {
		return err
	}
	q.Limit = limit
	return validate.Struct(q)
}

func intQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}

// parseDateQuery reads an optional YYYY-MM-DD query parameter.
func parseDateQuery(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(weather.DateLayout, raw)
	if err != nil {
		return nil, errors.New(key + " must be formatted as YYYY-MM-DD")
	}
	return &t, nil
}
