package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
)

func filterSetFor(t *testing.T, query string) (map[string]interface{}, int) {
	t.Helper()

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		set, err := parseFilterSet(c)
		if err != nil {
			require.True(t, apperror.IsValidation(err))
			return c.SendStatus(fiber.StatusBadRequest)
		}
		return c.JSON(set)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/?"+query, nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if resp.StatusCode != fiber.StatusOK {
		return nil, resp.StatusCode
	}

	decoded := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded, resp.StatusCode
}

func TestParseFilterSetShapes(t *testing.T) {
	set, status := filterSetFor(t, "title=Algebra&filters[active]=true&username[]=a&username[]=b&page[size]=5&page[number]=2&sort=-title")
	require.Equal(t, fiber.StatusOK, status)

	require.Equal(t, "Algebra", set["title"])
	require.Equal(t, "true", set["active"])
	require.Equal(t, []interface{}{"a", "b"}, set["username"])
	require.Equal(t, map[string]interface{}{"size": "5", "number": "2"}, set["page"])
	require.Equal(t, "-title", set["sort"])
}

func TestParseFilterSetJSONObject(t *testing.T) {
	set, status := filterSetFor(t, `filters=%7B%22appointed%22%3Atrue%2C%22event_id%22%3A3%7D`)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, set["appointed"])
	require.Equal(t, float64(3), set["event_id"])

	_, status = filterSetFor(t, "filters=not-json")
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestSplitQueryKey(t *testing.T) {
	root, path := splitQueryKey("filters[page][size]")
	require.Equal(t, "filters", root)
	require.Equal(t, []string{"page", "size"}, path)

	root, path = splitQueryKey("ids[]")
	require.Equal(t, "ids", root)
	require.Equal(t, []string{""}, path)

	root, path = splitQueryKey("plain")
	require.Equal(t, "plain", root)
	require.Nil(t, path)
}
