package stages

import (
	"context"

	"github.com/rs/zerolog"

	modelv "github.com/modelv/modelv"
)

// LogFlow is a wrap stage that logs the input keys before invoking the rest
// of the pipeline and the outcome after it returns. It never alters the input
// or the result.
func LogFlow(logger zerolog.Logger, model string) modelv.WrapStage {
	return func(ctx context.Context, raw map[string]modelv.RawValue, next modelv.Next) (*modelv.Instance, error) {
		keys := make([]string, 0, len(raw))
		for k := range raw {
			keys = append(keys, k)
		}
		logger.Debug().Str("model", model).Strs("keys", keys).Msg("validation started")

		inst, err := next(ctx, raw)
		if err != nil {
			if iss, ok := modelv.AsIssues(err); ok {
				logger.Info().Str("model", model).Int("issues", len(iss)).Msg("validation failed")
			} else {
				logger.Info().Str("model", model).Err(err).Msg("validation failed")
			}
			return nil, err
		}
		logger.Debug().Str("model", model).Msg("validation succeeded")
		return inst, nil
	}
}
