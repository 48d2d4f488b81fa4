/*
Package mongodataset reads and writes rows of categorical values from and
to a MongoDB collection.

Every row is stored as a document with its values in a "fields" array.
Documents are read back in _id order, which for generated ObjectIds is
their insertion order.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"

	"github.com/sapling-ml/sapling/dataset"
)

// DefaultCollection is the collection used when none is given
const DefaultCollection = "rows"

type document struct {
	ID     bson.ObjectId `bson:"_id,omitempty"`
	Fields []string      `bson:"fields"`
}

/*
Dial takes a MongoDB connection URL and returns a session
on it or an error if the server cannot be reached.
*/
func Dial(url string) (*mgo.Session, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %v", err)
	}
	return session, nil
}

/*
Read takes a context, a MongoDB session and a collection name and returns
the rows stored on the collection of the session's default database, or an
error if they cannot be read. Reading stops when the context is done.
*/
func Read(ctx context.Context, session *mgo.Session, collection string) ([]dataset.Row, error) {
	c, err := rowsCollection(session, collection)
	if err != nil {
		return nil, err
	}
	var rows []dataset.Row
	var doc document
	iter := c.Find(nil).Sort("_id").Iter()
	for iter.Next(&doc) {
		if err = ctx.Err(); err != nil {
			iter.Close()
			return nil, err
		}
		rows = append(rows, toRow(&doc))
		doc = document{}
	}
	err = iter.Close()
	if err != nil {
		return nil, fmt.Errorf("reading collection %s: %v", collection, err)
	}
	return rows, nil
}

/*
Write takes a context, a MongoDB session, a collection name and a slice of
rows and inserts the rows as documents on the collection. It returns the
number of rows inserted or an error.
*/
func Write(ctx context.Context, session *mgo.Session, collection string, rows []dataset.Row) (int, error) {
	c, err := rowsCollection(session, collection)
	if err != nil {
		return 0, err
	}
	if err = ctx.Err(); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, 0, len(rows))
	for _, r := range rows {
		docs = append(docs, toDocument(r))
	}
	err = c.Insert(docs...)
	if err != nil {
		return 0, fmt.Errorf("inserting %d rows on collection %s: %v", len(rows), collection, err)
	}
	return len(rows), nil
}

func rowsCollection(session *mgo.Session, collection string) (*mgo.Collection, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	if strings.ContainsAny(collection, "$\x00") {
		return nil, fmt.Errorf("invalid collection name %q", collection)
	}
	return session.DB("").C(collection), nil
}

func toRow(doc *document) dataset.Row {
	r := make(dataset.Row, len(doc.Fields))
	copy(r, doc.Fields)
	return r
}

func toDocument(r dataset.Row) *document {
	fields := make([]string, len(r))
	copy(fields, r)
	return &document{ID: bson.NewObjectId(), Fields: fields}
}
