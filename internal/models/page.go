package models

// Pagination — метаданные страницы в формате бэкенда.
type Pagination struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

// PageView — текущая страница пользователей вместе с метаданными.
// Заменяется целиком при каждой успешной выборке.
type PageView struct {
	Records    []UserRecord `json:"records"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	TotalCount int          `json:"totalCount"`
}

// NewPageView собирает PageView из ответа бэкенда.
func NewPageView(records []UserRecord, p Pagination) PageView {
	if records == nil {
		records = []UserRecord{}
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	return PageView{
		Records:    records,
		Page:       page,
		TotalPages: p.Pages,
		TotalCount: p.Total,
	}
}

// HasPrev сообщает, есть ли предыдущая страница.
func (v PageView) HasPrev() bool { return v.Page > 1 }

// HasNext сообщает, есть ли следующая страница.
func (v PageView) HasNext() bool { return v.TotalPages > 0 && v.Page < v.TotalPages }

// IndexOf возвращает позицию записи с id или -1.
func (v PageView) IndexOf(id string) int {
	for i := range v.Records {
		if v.Records[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone возвращает копию с независимым срезом записей.
func (v PageView) Clone() PageView {
	c := v
	c.Records = make([]UserRecord, len(v.Records))
	for i := range v.Records {
		c.Records[i] = v.Records[i].Clone()
	}
	return c
}
