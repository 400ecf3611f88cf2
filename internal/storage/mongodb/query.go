package mongodb

import (
	"regexp"
	"sort"

	"go.mongodb.org/mongo-driver/bson"

	"tracker/internal/query"
)

// filterDocument compiles conditions into a query document. Search terms
// are matched literally, never as patterns.
func filterDocument(conds []query.Condition) bson.D {
	doc := bson.D{}
	for _, c := range conds {
		switch c.Op {
		case query.OpEq:
			doc = append(doc, bson.E{Key: c.Field, Value: c.Value})
		case query.OpNe:
			doc = append(doc, bson.E{Key: c.Field, Value: bson.D{{Key: "$ne", Value: c.Value}}})
		case query.OpLt:
			doc = append(doc, bson.E{Key: c.Field, Value: bson.D{{Key: "$lt", Value: c.Value}}})
		case query.OpSearch:
			term, _ := c.Value.(string)
			pattern := regexp.QuoteMeta(term)
			alternatives := bson.A{}
			for _, field := range c.Fields {
				alternatives = append(alternatives, bson.D{{Key: field, Value: bson.D{
					{Key: "$regex", Value: pattern},
					{Key: "$options", Value: "i"},
				}}})
			}
			doc = append(doc, bson.E{Key: "$or", Value: alternatives})
		case query.OpMember:
			doc = append(doc, bson.E{Key: c.Field + "." + c.ElemField, Value: c.Value})
		}
	}
	return doc
}

func sortDocument(keys []query.SortKey) bson.D {
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: k.Field, Value: dir})
	}
	return doc
}

// updateDocument splits fields into $set and $unset, keys sorted so the
// update is deterministic.
func updateDocument(fields map[string]any) bson.D {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	set, unset := bson.D{}, bson.D{}
	for _, k := range keys {
		if fields[k] == nil {
			unset = append(unset, bson.E{Key: k, Value: ""})
			continue
		}
		set = append(set, bson.E{Key: k, Value: fields[k]})
	}

	update := bson.D{}
	if len(set) > 0 {
		update = append(update, bson.E{Key: "$set", Value: set})
	}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}
