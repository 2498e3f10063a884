// Package query разбирает параметры листинга (фильтры, сортировка,
// ограничение полей, пагинация) в типизированное описание выборки.
// Фильтр — тройка (колонка, оператор, значение); имена колонок проверяются
// по whitelist, значения передаются в запрос только как аргументы.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Op — оператор сравнения в SQL-синтаксисе.
type Op string

const (
	OpEq  Op = "="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

// операторные суффиксы вида price[gt] и их SQL-эквиваленты
var ops = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// зарезервированные параметры, не являющиеся фильтрами
var reserved = map[string]bool{
	"fields": true,
	"sort":   true,
	"page":   true,
	"limit":  true,
}

// Filter — одно условие выборки. Несколько условий на одну колонку
// объединяются по AND.
type Filter struct {
	Column string
	Op     Op
	Value  string // передаётся как есть, тип приводит СУБД
}

// Sort — одна колонка сортировки.
type Sort struct {
	Column string
	Desc   bool
}

// Options — полное описание выборки по одной коллекции.
// Порядок применения фиксирован: фильтр, сортировка, проекция, пагинация.
type Options struct {
	Filters []Filter
	Sort    []Sort
	Fields  []string // колонки проекции; пусто — все
	Limit   int
	Offset  int
	PageSet bool // параметр page был задан явно — включает проверку границы
}

// Parse разбирает параметры запроса. columns отображает внешние имена полей
// в имена колонок; ключи вне отображения отклоняются.
func Parse(values url.Values, columns map[string]string) (*Options, error) {
	opts := &Options{}

	for key, vals := range values {
		if reserved[key] {
			continue
		}
		field, op := splitOperator(key)
		column, ok := columns[field]
		if !ok {
			return nil, fmt.Errorf("unknown field %q", field)
		}
		for _, v := range vals {
			opts.Filters = append(opts.Filters, Filter{Column: column, Op: op, Value: v})
		}
	}

	if sortParam := values.Get("sort"); sortParam != "" {
		for _, part := range strings.Split(sortParam, ",") {
			desc := strings.HasPrefix(part, "-")
			name := strings.TrimPrefix(part, "-")
			column, ok := columns[name]
			if !ok {
				return nil, fmt.Errorf("unknown sort field %q", name)
			}
			opts.Sort = append(opts.Sort, Sort{Column: column, Desc: desc})
		}
	} else {
		// по умолчанию — новые записи первыми
		opts.Sort = []Sort{{Column: "created_at", Desc: true}}
	}

	if fieldsParam := values.Get("fields"); fieldsParam != "" {
		seen := map[string]bool{}
		// id присутствует в ответе всегда
		opts.Fields = append(opts.Fields, "id")
		seen["id"] = true
		for _, part := range strings.Split(fieldsParam, ",") {
			column, ok := columns[part]
			if !ok {
				return nil, fmt.Errorf("unknown field %q", part)
			}
			if !seen[column] {
				opts.Fields = append(opts.Fields, column)
				seen[column] = true
			}
		}
	}

	page := positiveIntOr(values.Get("page"), DefaultPage)
	limit := positiveIntOr(values.Get("limit"), DefaultLimit)
	opts.Limit = limit
	opts.Offset = (page - 1) * limit
	opts.PageSet = values.Get("page") != ""

	return opts, nil
}

// splitOperator выделяет операторный суффикс: "price[gt]" -> ("price", ">").
// Нераспознанный суффикс оставляется частью имени поля.
func splitOperator(key string) (string, Op) {
	open := strings.IndexByte(key, '[')
	if open > 0 && strings.HasSuffix(key, "]") {
		if op, ok := ops[key[open+1:len(key)-1]]; ok {
			return key[:open], op
		}
	}
	return key, OpEq
}

// positiveIntOr повторяет семантику Number(x) || def исходного API:
// нечисловые значения и значения < 1 заменяются умолчанием.
func positiveIntOr(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}
