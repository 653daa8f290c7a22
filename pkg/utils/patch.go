// Файл: utils/patch.go
package utils

import (
	"encoding/json"

	apperrors "workshop-system/pkg/errors"
)

// SentFields разбирает сырое тело запроса и возвращает множество ключей,
// которые клиент реально прислал. Это позволяет отличать "поле не прислано"
// от "поле прислано со значением null" при частичном обновлении.
func SentFields(raw []byte) (map[string]bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperrors.NewInvalidInputError("некорректный JSON в теле запроса")
	}

	sent := make(map[string]bool, len(fields))
	for key := range fields {
		sent[key] = true
	}
	return sent, nil
}
