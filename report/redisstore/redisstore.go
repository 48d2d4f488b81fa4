/*
Package redisstore provides an implementation of report.Store
that uses a redis DB as backend.
*/
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/sapling-ml/sapling/report"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc     *redis.Client
	prefix string
}

/*
New builds a report.Store backed by the given redis client. It uses the
given prefix for the keys it keeps, which are the following:
  * prefix:folds is the key to a set with the names of the stored folds
  * prefix:report:fold is the key to a string with the JSON encoded report
  for the fold.
*/
func New(rc *redis.Client, prefix string) report.Store {
	return &redisStore{rc, prefix}
}

/*
Dial takes a redis URL like redis://:password@host:6379/0 and a key
prefix and returns a report.Store over a client connected to it.
*/
func Dial(url, prefix string) (report.Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %v", err)
	}
	rc := redis.NewClient(opts)
	if err = rc.Ping().Err(); err != nil {
		rc.Close()
		return nil, fmt.Errorf("connecting to redis: %v", err)
	}
	return New(rc, prefix), nil
}

func (rs *redisStore) Save(ctx context.Context, r *report.FoldReport) error {
	if r.Fold == "" {
		return fmt.Errorf("saving report: report has no fold name")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("saving report %q: encoding report: %v", r.Fold, err)
	}
	key := rs.reportKey(r.Fold)
	err = rs.rc.Set(key, data, 0).Err()
	if err != nil {
		return fmt.Errorf("storing report %q in redis: %v", key, err)
	}
	err = rs.rc.SAdd(rs.foldsKey(), r.Fold).Err()
	if err != nil {
		return fmt.Errorf("adding fold %q to %q in redis: %v", r.Fold, rs.foldsKey(), err)
	}
	return nil
}

func (rs *redisStore) List(ctx context.Context) ([]*report.FoldReport, error) {
	folds, err := rs.rc.SMembers(rs.foldsKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("listing folds from redis: %v", err)
	}
	sort.Strings(folds)
	result := make([]*report.FoldReport, 0, len(folds))
	for _, f := range folds {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		data, err := rs.rc.Get(rs.reportKey(f)).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("retrieving report %q: %v", f, err)
		}
		r := &report.FoldReport{}
		err = json.Unmarshal([]byte(data), r)
		if err != nil {
			return nil, fmt.Errorf("retrieving report %q: decoding %q: %v", f, data, err)
		}
		result = append(result, r)
	}
	return result, nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) reportKey(fold string) string {
	return fmt.Sprintf("%s:report:%s", rs.prefix, fold)
}

func (rs *redisStore) foldsKey() string {
	return fmt.Sprintf("%s:folds", rs.prefix)
}
