// Package stormsql translates a subset of SQL SELECT statements into Storm queries.
//
// Dates given as strings are converted to unix seconds, the ledger time unit.
package stormsql

import (
	"fmt"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/asdine/storm/v3/q"
	"github.com/pkg/errors"
	"github.com/xwb1989/sqlparser"
)

// A SelectClause contains all the parsed SQL data.
type SelectClause struct {
	SelectedFields  []string
	Count           bool
	Tablename       string
	Matcher         q.Matcher
	Skip            int
	Limit           int
	OrderBy         []string
	OrderByReversed bool
}

// ParseSelect parses the given SELECT statement.
func ParseSelect(sql string) (*SelectClause, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse SQL")
	}

	s, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, errors.New("not a select statement")
	}

	var sc SelectClause

	// SELECT * ...
	// SELECT Owner,UpdatedAt ...
	for _, se := range s.SelectExprs {
		switch v := se.(type) {
		case *sqlparser.StarExpr:
			sc.SelectedFields = []string{}
		case *sqlparser.AliasedExpr:
			switch v := v.Expr.(type) {
			case *sqlparser.ColName:
				sc.SelectedFields = append(sc.SelectedFields, v.Name.String())
			case *sqlparser.FuncExpr:
				sc.SelectedFields = []string{}
				sc.Count = v.Name.Lowered() == "count"
			default:
				return nil, errors.Errorf("unsupported select expression: %s", sqlparser.String(v))
			}
		default:
			return nil, errors.New("unsupported select expression")
		}
	}

	// FROM blinks
	table, ok := s.From[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return nil, errors.New("unsupported from expression")
	}
	sc.Tablename = sqlparser.GetTableName(table.Expr).String()

	// WHERE
	sc.Matcher = q.And()
	if s.Where != nil {
		sc.Matcher, err = parseWhereExpr(s.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	// LIMIT 5
	// LIMIT 2,5
	if s.Limit != nil {
		if s.Limit.Offset != nil {
			sc.Skip, err = parseInt(s.Limit.Offset)
			if err != nil {
				return nil, errors.Wrap(err, "offset")
			}
		}
		sc.Limit, err = parseInt(s.Limit.Rowcount)
		if err != nil {
			return nil, errors.Wrap(err, "limit")
		}
	}

	// ORDER BY UpdatedAt
	// ORDER BY UpdatedAt DESC
	// ORDER BY UpdatedAt DESC, CreatedAt ASC     => All will be DESC due to strom limitation
	for _, ob := range s.OrderBy {
		col, ok := ob.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("unsupported order by expression")
		}
		if ob.Direction == sqlparser.DescScr {
			sc.OrderByReversed = true
		}
		sc.OrderBy = append(sc.OrderBy, col.Name.String())
	}

	return &sc, nil
}

func parseWhereExpr(expr sqlparser.Expr) (q.Matcher, error) {
	switch v := expr.(type) {
	case *sqlparser.ComparisonExpr:
		col, ok := v.Left.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("left operand must be a column")
		}
		field := col.Name.String()

		value, err := parseValue(v.Right)
		if err != nil {
			return nil, err
		}

		switch v.Operator {
		case sqlparser.EqualStr:
			return q.Eq(field, value), nil
		case sqlparser.NotEqualStr:
			return q.Not(q.Eq(field, value)), nil
		case sqlparser.GreaterThanStr:
			return q.Gt(field, value), nil
		case sqlparser.GreaterEqualStr:
			return q.Gte(field, value), nil
		case sqlparser.LessThanStr:
			return q.Lt(field, value), nil
		case sqlparser.LessEqualStr:
			return q.Lte(field, value), nil
		case sqlparser.InStr:
			return q.In(field, value), nil
		case sqlparser.LikeStr:
			return q.Re(field, fmt.Sprintf("%v", value)), nil
		default:
			return nil, errors.Errorf("unsupported operator: %s", v.Operator)
		}
	case *sqlparser.IsExpr:
		col, ok := v.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, errors.New("is operand must be a column")
		}

		switch v.Operator {
		case sqlparser.IsNullStr:
			return q.Eq(col.Name.String(), nil), nil
		case sqlparser.IsNotNullStr:
			return q.Not(q.Eq(col.Name.String(), nil)), nil
		case sqlparser.IsTrueStr:
			return q.Eq(col.Name.String(), true), nil
		case sqlparser.IsFalseStr:
			return q.Eq(col.Name.String(), false), nil
		default:
			return nil, errors.Errorf("unsupported operator: %s", v.Operator)
		}
	case *sqlparser.AndExpr:
		left, right, err := parseBoth(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return q.And(left, right), nil
	case *sqlparser.OrExpr:
		left, right, err := parseBoth(v.Left, v.Right)
		if err != nil {
			return nil, err
		}
		return q.Or(left, right), nil
	case *sqlparser.NotExpr:
		m, err := parseWhereExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return q.Not(m), nil
	case *sqlparser.ParenExpr:
		return parseWhereExpr(v.Expr)
	default:
		return nil, errors.Errorf("unsupported where expression: %s", sqlparser.String(expr))
	}
}

func parseBoth(l, r sqlparser.Expr) (left, right q.Matcher, err error) {
	left, err = parseWhereExpr(l)
	if err != nil {
		return nil, nil, err
	}
	right, err = parseWhereExpr(r)
	return left, right, err
}

func parseValue(expr sqlparser.Expr) (any, error) {
	switch v := expr.(type) {
	case sqlparser.BoolVal:
		return bool(v), nil
	case *sqlparser.NullVal:
		return nil, nil
	case sqlparser.ValTuple:
		tuple := make([]any, 0, len(v))
		for _, e := range v {
			value, err := parseValue(e)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, value)
		}
		return tuple, nil
	case *sqlparser.SQLVal:
		return parseSQLVal(v)
	default:
		return nil, errors.Errorf("unsupported value: %s", sqlparser.String(expr))
	}
}

func parseInt(expr sqlparser.Expr) (int, error) {
	v, ok := expr.(*sqlparser.SQLVal)
	if !ok || v.Type != sqlparser.IntVal {
		return 0, errors.New("integer expected")
	}
	return strconv.Atoi(string(v.Val))
}

// parseSQLVal converts a literal to the type stored by the ledger.
// Integers are int64 like timestamps and lamports are compared by storm as numbers.
func parseSQLVal(v *sqlparser.SQLVal) (any, error) {
	switch v.Type {
	case sqlparser.StrVal:
		s := string(v.Val)

		// Dates without zone are UTC.
		if t, err := dateparse.ParseIn(s, time.UTC); err == nil {
			return t.Unix(), nil
		}
		return s, nil
	case sqlparser.IntVal:
		n, err := strconv.ParseInt(string(v.Val), 10, 64)
		return n, errors.Wrap(err, "integer")
	case sqlparser.FloatVal:
		f, err := strconv.ParseFloat(string(v.Val), 64)
		return f, errors.Wrap(err, "float")
	case sqlparser.HexNum:
		n, err := strconv.ParseInt(string(v.Val[2:]), 16, 64)
		return n, errors.Wrap(err, "hexnum")
	case sqlparser.HexVal:
		b, err := v.HexDecode()
		return b, errors.Wrap(err, "hexval")
	case sqlparser.BitVal:
		return len(v.Val) > 0 && v.Val[0] == '1', nil
	default:
		return nil, errors.New("unsupported literal")
	}
}
