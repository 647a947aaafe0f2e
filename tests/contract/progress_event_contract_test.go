package contract_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sparrowhq/talent-api/internal/dto"
	"github.com/sparrowhq/talent-api/internal/models"
)

func TestProgressEventStreamContract(t *testing.T) {
	schema := compileSchema(t, "progress_event.schema.json")

	events := []dto.ProgressEventResponse{
		{
			ID:          1,
			RecipientID: 7,
			Type:        models.EventTypeRoundProgressed,
			Message:     "Screening cohort moved to Technical",
			Metadata:    map[string]interface{}{"job_id": float64(3)},
			CreatedAt:   time.Now().UTC(),
		},
		{
			ID:          2,
			RecipientID: 7,
			Type:        models.EventTypeEvaluationCompleted,
			Message:     "evaluation run finished",
			Read:        true,
			CreatedAt:   time.Now().UTC(),
		},
	}

	for _, event := range events {
		raw, err := json.Marshal(event)
		require.NoError(t, err)

		var decoded interface{}
		require.NoError(t, json.Unmarshal(raw, &decoded))
		require.NoError(t, schema.Validate(decoded))
	}
}
