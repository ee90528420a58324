package storage

import (
	"fmt"
	"strings"

	"leads_service/internal/models"

	"github.com/gofrs/uuid"
)

// sortColumns is the allow-list of sortable columns. Anything else sorts by created_at.
var sortColumns = map[models.SortField]string{
	models.SortByName:      "name",
	models.SortByEmail:     "email",
	models.SortByStatus:    "status",
	models.SortByCreatedAt: "created_at",
	models.SortByCompany:   "company",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// queryArgs accumulates positional arguments and hands out their placeholders.
type queryArgs []interface{}

func (a *queryArgs) add(v interface{}) string {
	*a = append(*a, v)
	return fmt.Sprintf("$%d", len(*a))
}

func buildWhere(userID uuid.UUID, filter models.LeadFilter, args *queryArgs) string {
	conditions := []string{"user_id = " + args.add(userID)}

	if filter.Status != "" {
		conditions = append(conditions, "status = "+args.add(string(filter.Status)))
	}

	if filter.Search != "" {
		p := args.add("%" + likeEscaper.Replace(filter.Search) + "%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE %s OR email ILIKE %s)", p, p))
	}

	if filter.DateFrom != nil {
		conditions = append(conditions, "created_at >= "+args.add(*filter.DateFrom))
	}

	if filter.DateTo != nil {
		conditions = append(conditions, "created_at <= "+args.add(*filter.DateTo))
	}

	return strings.Join(conditions, " AND ")
}

func buildOrderBy(filter models.LeadFilter) string {
	column, ok := sortColumns[filter.SortField]
	if !ok {
		column = "created_at"
	}

	direction := "DESC"
	if filter.SortOrder == models.SortAsc {
		direction = "ASC"
	}

	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

func buildListQuery(userID uuid.UUID, filter models.LeadFilter) (string, []interface{}) {
	var args queryArgs

	where := buildWhere(userID, filter, &args)
	limit := args.add(filter.PageSize)
	offset := args.add(filter.Offset())

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT %s OFFSET %s;",
		leadColumns, leadsTable, where, buildOrderBy(filter), limit, offset)

	return query, args
}

func buildCountQuery(userID uuid.UUID, filter models.LeadFilter) (string, []interface{}) {
	var args queryArgs

	where := buildWhere(userID, filter, &args)

	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s;", leadsTable, where), args
}

// buildUpdateQuery sets only the fields present in patch and always refreshes updated_at.
func buildUpdateQuery(userID, leadID uuid.UUID, patch models.LeadPatch) (string, []interface{}) {
	var (
		args queryArgs
		sets []string
	)

	set := func(column string, v interface{}) {
		sets = append(sets, column+" = "+args.add(v))
	}

	if patch.Name != nil {
		set("name", *patch.Name)
	}
	if patch.Email != nil {
		set("email", *patch.Email)
	}
	if patch.Status != nil {
		set("status", string(*patch.Status))
	}
	if patch.Company != nil {
		set("company", *patch.Company)
	}
	if patch.Phone != nil {
		set("phone", *patch.Phone)
	}
	if patch.Notes != nil {
		set("notes", *patch.Notes)
	}
	sets = append(sets, "updated_at = NOW()")

	id := args.add(leadID)
	owner := args.add(userID)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s AND user_id = %s RETURNING %s;",
		leadsTable, strings.Join(sets, ", "), id, owner, leadColumns)

	return query, args
}
