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

package rdb

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

// CacheResult wraps a query publisher with a disk cache keyed by
// function name and raw arguments. With no cache path configured it
// degrades to a pass-through. Parse results are deterministic for a
// given model, so cache entries never expire.
func (a *Adapter) CacheResult(fn func(Query) (<-chan *WorkerResult, error), query Query) (<-chan *WorkerResult, error) {
	if len(a.cachePath) == 0 {
		return fn(query)
	}

	hashKey := sha1.Sum(append([]byte(query.Func), query.Args...))
	path := a.cachePath + "/" + query.Func + hex.EncodeToString(hashKey[:])

	pe := fs.PathExists(path)
	isf, _ := fs.IsFile(path)
	ans := make(chan *WorkerResult)
	if pe && isf {
		go func() {
			result := new(WorkerResult)
			content, err := os.ReadFile(path)
			if err != nil {
				log.Err(err).Msgf("Error while reading cache file %s", path)
			}
			if err := json.Unmarshal(content, result); err != nil {
				log.Err(err).Msgf("Error while decoding cache file %s", path)
			}
			ans <- result
		}()
		return ans, nil
	}

	wr, err := fn(query)
	go func(wr <-chan *WorkerResult) {
		rawResult := <-wr
		if !rawResult.HasUserError && rawResult.ResultType != ResultTypeError {
			data, err := json.Marshal(rawResult)
			if err != nil {
				log.Err(err).Msgf("Error while serializing result for cache file %s", path)

			} else if err := os.WriteFile(path, data, 0644); err != nil {
				log.Err(err).Msgf("Error while writing cache file %s", path)
			}
		}
		ans <- rawResult
	}(wr)
	return ans, err
}
