// Copyright 2024 UDPARSE contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package rdb provides the Redis-backed queue connecting the API
// server with parsing workers. Queries are pushed to a list, workers
// pop them, and each result travels back through a per-query pub/sub
// channel.
package rdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"udparse/uderror"
)

const (
	MsgNewQuery                = "newQuery"
	MsgNewResult               = "newResult"
	DefaultQueueKey            = "udparseQueue"
	DefaultResultChannelPrefix = "udparseResults"
	DefaultQueryChannel        = "udparseQueries"
	DefaultJobLogChannel       = "udparseJobLogs"
	DefaultResultExpiration    = 10 * time.Minute
)

var (
	ErrorEmptyQueue = errors.New("no queries in the queue")
)

type Query struct {
	Channel string          `json:"channel"`
	Func    string          `json:"func"`
	Args    json.RawMessage `json:"args"`
}

func (q Query) ToJSON() (string, error) {
	ans, err := json.Marshal(q)
	if err != nil {
		return "", err
	}
	return string(ans), nil
}

func DecodeQuery(q string) (Query, error) {
	var ans Query
	err := json.Unmarshal([]byte(q), &ans)
	return ans, err
}

// queryFailure is a minimal error payload used when the adapter
// itself cannot obtain or decode a worker result.
type queryFailure struct {
	Error string `json:"error"`
}

func (qf queryFailure) Err() error {
	return errors.New(qf.Error)
}

func (qf queryFailure) Type() ResultType {
	return ResultTypeError
}

type Adapter struct {
	ctx                 context.Context
	c                   *redis.Client
	channelQuery        string
	channelResultPrefix string
	channelJobLog       string
	cachePath           string
}

// TestConnection tries to ping the Redis server once a second until
// either a reply comes or the timeout is reached.
func (a *Adapter) TestConnection(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(a.ctx, timeout)
	defer cancel()
	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		if err := a.c.Ping(ctx).Err(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return uderror.TimeoutError{
				Msg: fmt.Sprintf("failed to connect to the Redis server: %s", ctx.Err()),
			}
		case <-tick.C:
		}
	}
}

func (a *Adapter) SomeoneListens(query Query) (bool, error) {
	cmd := a.c.PubSubNumSub(a.ctx, query.Channel)
	if cmd.Err() != nil {
		return false, fmt.Errorf("failed to check channel listeners: %w", cmd.Err())
	}
	return cmd.Val()[query.Channel] > 0, nil
}

// PublishQuery enqueues a query for the workers and returns a channel
// providing the matching result once a worker is done with the job.
func (a *Adapter) PublishQuery(query Query) (<-chan *WorkerResult, error) {
	query.Channel = fmt.Sprintf("%s:%s", a.channelResultPrefix, uuid.New().String())
	log.Debug().
		Str("channel", query.Channel).
		Str("func", query.Func).
		Msg("publishing query")

	msg, err := query.ToJSON()
	if err != nil {
		return nil, err
	}
	if err := a.c.LPush(a.ctx, DefaultQueueKey, msg).Err(); err != nil {
		return nil, err
	}
	sub := a.c.Subscribe(a.ctx, query.Channel)
	ans := make(chan *WorkerResult)

	// now we wait for response and send result via `ans`
	go func() {
		result := new(WorkerResult)

		item := <-sub.Channel()
		cmd := a.c.Get(a.ctx, item.Payload)
		if cmd.Err() != nil {
			result.AttachValue(queryFailure{Error: cmd.Err().Error()})

		} else {
			err := json.Unmarshal([]byte(cmd.Val()), &result)
			if err != nil {
				result.AttachValue(queryFailure{Error: err.Error()})
			}
		}
		ans <- result
		sub.Close()
		close(ans)
	}()
	return ans, a.c.Publish(a.ctx, a.channelQuery, MsgNewQuery).Err()
}

func (a *Adapter) DequeueQuery() (Query, error) {
	cmd := a.c.RPop(a.ctx, DefaultQueueKey)
	if cmd.Err() == redis.Nil {
		return Query{}, ErrorEmptyQueue

	} else if cmd.Err() != nil {
		return Query{}, fmt.Errorf("failed to dequeue query: %w", cmd.Err())
	}
	q, err := DecodeQuery(cmd.Val())
	if err != nil {
		return Query{}, fmt.Errorf("failed to deserialize query: %w", err)
	}
	return q, nil
}

func (a *Adapter) PublishResult(channelName string, value *WorkerResult) error {
	log.Debug().
		Str("channel", channelName).
		Str("resultType", value.ResultType.String()).
		Msg("publishing result")
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize result: %w", err)
	}
	a.c.Set(a.ctx, channelName, string(data), DefaultResultExpiration)
	return a.c.Publish(a.ctx, channelName, channelName).Err()
}

// PublishJobLog broadcasts a finished job record for any listening
// monitoring consumer. Failures here must not break job processing,
// so they are only logged.
func (a *Adapter) PublishJobLog(jl JobLog) {
	data, err := json.Marshal(jl)
	if err != nil {
		log.Error().Err(err).Msg("failed to serialize job log")
		return
	}
	if err := a.c.Publish(a.ctx, a.channelJobLog, string(data)).Err(); err != nil {
		log.Error().Err(err).Msg("failed to publish job log")
	}
}

// JobLogs subscribes to the job log channel and provides decoded
// records until ctx is done.
func (a *Adapter) JobLogs(ctx context.Context) <-chan JobLog {
	sub := a.c.Subscribe(a.ctx, a.channelJobLog)
	ans := make(chan JobLog)
	go func() {
		defer sub.Close()
		defer close(ans)
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-sub.Channel():
				var jl JobLog
				if err := json.Unmarshal([]byte(msg.Payload), &jl); err != nil {
					log.Error().Err(err).Msg("failed to decode job log")
					continue
				}
				ans <- jl
			}
		}
	}()
	return ans
}

func (a *Adapter) Subscribe() <-chan *redis.Message {
	sub := a.c.Subscribe(a.ctx, a.channelQuery)
	return sub.Channel()
}

func NewAdapter(conf *Conf) *Adapter {
	chRes := conf.ChannelResultPrefix
	chQuery := conf.ChannelQuery
	if chRes == "" {
		chRes = DefaultResultChannelPrefix
		log.Warn().
			Str("channel", chRes).
			Msg("Redis channel for results not specified, using default")
	}
	if chQuery == "" {
		chQuery = DefaultQueryChannel
		log.Warn().
			Str("channel", chQuery).
			Msg("Redis channel for queries not specified, using default")
	}

	ans := &Adapter{
		c: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
			Password: conf.Password,
			DB:       conf.DB,
		}),
		ctx:                 context.Background(),
		channelQuery:        chQuery,
		channelResultPrefix: chRes,
		channelJobLog:       DefaultJobLogChannel,
		cachePath:           conf.CachePath,
	}
	return ans
}
