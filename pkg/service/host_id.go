// Copyright 2025 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package service

import (
	"crypto/sha1"
	"fmt"
	"net"
	"os"
	"runtime"
	"sort"
	"strings"
)

// createHostID creates a host ID based on the machine ID, falling back
// to network hardware addresses.
func createHostID() (string, error) {
	if content, err := os.ReadFile("/etc/machine-id"); err == nil {
		content = []byte(strings.TrimSpace(string(content)))
		if len(content) > 0 {
			return hashHostID(content), nil
		}
	}

	ifs, err := net.Interfaces()
	if err != nil {
		return "", maskAny(err)
	}
	list := make([]string, 0, len(ifs))
	for _, v := range ifs {
		f := v.Flags
		if f&net.FlagUp != 0 && f&net.FlagLoopback == 0 {
			if h := v.HardwareAddr.String(); len(h) > 0 {
				list = append(list, h)
			}
		}
	}
	sort.Strings(list)
	list = append(list, runtime.GOOS, runtime.GOARCH)
	return hashHostID([]byte(strings.Join(list, ","))), nil
}

// hashHostID returns the first 10 hex characters of the sha1 of the given data.
func hashHostID(data []byte) string {
	return fmt.Sprintf("%x", sha1.Sum(data))[:10]
}
