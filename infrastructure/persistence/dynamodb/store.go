package dynamodb

import (
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"exercisely-backend/domain/core/valueobjects"
	"exercisely-backend/pkg/utils"
)

// Index names on the entity table.
const (
	indexEntityClass = "GSI1" // GSI1PK = entity class, GSI1SK = PK
	indexReverse     = "GSI2" // GSI2PK = SK, GSI2SK = PK
	indexListID      = "GSI3" // GSI3PK = LISTID#<listId>
	indexEmail       = "GSI4" // GSI4PK = lowercased email
)

const listIDPrefix = "LISTID#"

// isConditionalCheckFailed reports whether err is a failed condition
// expression, which the repositories translate into domain errors.
func isConditionalCheckFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// keyAttr builds the marshalled primary key for an item.
func keyAttr(key valueobjects.ItemKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: key.PK},
		"SK": &types.AttributeValueMemberS{Value: key.SK},
	}
}

// formatTime and parseTime fix the stored timestamp representation.
// Unparsable timestamps read back as the zero time rather than failing
// the whole item.
func formatTime(t time.Time) string {
	return utils.FormatRFC3339(t)
}

func parseTime(s string) time.Time {
	t, err := utils.ParseRFC3339(s)
	if err != nil {
		return time.Time{}
	}
	return t
}
