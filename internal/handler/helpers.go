package handler

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/elplano-go-api/internal/apperror"
	"github.com/noah-isme/elplano-go-api/internal/dto"
	"github.com/noah-isme/elplano-go-api/internal/finder"
	"github.com/noah-isme/elplano-go-api/internal/middleware"
	"github.com/noah-isme/elplano-go-api/internal/utils"
)

const filtersParam = "filters"

// parseFilterSet turns the query string into a finder.FilterSet. Accepted
// shapes: key=v, filters[key]=v, key[]=a&key[]=b, page[size]=n and a JSON
// object in filters=.
func parseFilterSet(c *fiber.Ctx) (finder.FilterSet, error) {
	set := finder.FilterSet{}
	var parseErr error

	c.Context().QueryArgs().VisitAll(func(rawKey, rawValue []byte) {
		key, value := string(rawKey), string(rawValue)

		if key == filtersParam {
			decoded := map[string]interface{}{}
			if err := json.Unmarshal([]byte(value), &decoded); err != nil {
				parseErr = apperror.Invalid(filtersParam, "must be a JSON object")
				return
			}
			for k, v := range decoded {
				set[k] = v
			}
			return
		}

		root, path := splitQueryKey(key)
		if root == filtersParam && len(path) > 0 && path[0] != "" {
			root, path = path[0], path[1:]
		}
		assignQueryValue(set, root, path, value)
	})

	return set, parseErr
}

// splitQueryKey splits "page[size]" into ("page", ["size"]) and "ids[]" into
// ("ids", [""]).
func splitQueryKey(key string) (string, []string) {
	open := strings.IndexByte(key, '[')
	if open <= 0 || !strings.HasSuffix(key, "]") {
		return key, nil
	}

	root := key[:open]
	inner := strings.TrimSuffix(key[open+1:], "]")
	return root, strings.Split(inner, "][")
}

func assignQueryValue(set finder.FilterSet, root string, path []string, value string) {
	switch {
	case len(path) == 0:
		set[root] = value
	case path[0] == "":
		list, _ := set[root].([]interface{})
		set[root] = append(list, value)
	default:
		nested, ok := set[root].(map[string]interface{})
		if !ok {
			nested = map[string]interface{}{}
			set[root] = nested
		}
		nested[path[0]] = value
	}
}

func parseUintParam(c *fiber.Ctx, name string) (uint, error) {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Params(name)), 10, 64)
	if err != nil || parsed == 0 {
		return 0, apperror.Invalid(name, "must be a positive integer")
	}
	return uint(parsed), nil
}

func parseBody(c *fiber.Ctx, payload interface{}) error {
	if err := c.BodyParser(payload); err != nil {
		return apperror.Invalid("body", "must be a valid JSON document")
	}
	return nil
}

// respond maps err onto the error envelope. Server-side failures are logged
// with the request's correlation id.
func respond(c *fiber.Ctx, logger zerolog.Logger, err error) error {
	status, message, fieldErrors := utils.Classify(err)
	if status >= fiber.StatusInternalServerError {
		requestLogger := middleware.RequestLogger(logger, c)
		requestLogger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
	}
	return utils.SendError(c, status, message, fieldErrors...)
}

// list runs a finder with the request's filters and actor.
func list[M any, T any](c *fiber.Ctx, f *finder.Finder[M], convert func(M) T) (dto.ListResponse[T], error) {
	set, err := parseFilterSet(c)
	if err != nil {
		return dto.ListResponse[T]{}, err
	}
	result, err := f.Execute(c.UserContext(), middleware.Actor(c), set)
	if err != nil {
		return dto.ListResponse[T]{}, err
	}
	return dto.NewListResponse(result, convert), nil
}

// show loads one entity through a finder's default view.
func show[M any, T any](c *fiber.Ctx, f *finder.Finder[M], convert func(M) T) (T, error) {
	var zero T
	id, err := parseUintParam(c, "id")
	if err != nil {
		return zero, err
	}
	item, err := f.Find(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return zero, err
	}
	return convert(item), nil
}
