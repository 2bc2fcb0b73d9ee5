// Package models содержит доменные структуры админ-консоли: администратора,
// учётные записи пользователей с подписками, страницы списка и аналитику.
package models

import "encoding/json"

// Identity представляет аутентифицированного администратора.
// Существует только пока сессия держит валидный токен.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// FullName возвращает имя и фамилию через пробел.
func (i Identity) FullName() string {
	return joinName(i.FirstName, i.LastName)
}

// UnmarshalJSON принимает идентификатор как в поле "id", так и в "_id".
func (i *Identity) UnmarshalJSON(data []byte) error {
	type alias Identity
	var raw struct {
		alias
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*i = Identity(raw.alias)
	if i.ID == "" {
		i.ID = raw.MongoID
	}
	return nil
}

func joinName(first, last string) string {
	switch {
	case first == "":
		return last
	case last == "":
		return first
	default:
		return first + " " + last
	}
}
