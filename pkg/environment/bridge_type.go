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

package environment

import "strings"

const (
	// BridgeTypeRPI selects the Raspberry Pi bridge
	BridgeTypeRPI = "rpi"
	// BridgeTypeVirtual selects a bridge without hardware
	BridgeTypeVirtual = "virtual"
)

// bridgeTypeForMachine returns the bridge type for the given uname machine.
func bridgeTypeForMachine(machine string) string {
	machine = strings.ToLower(machine)
	if strings.HasPrefix(machine, "arm") || strings.HasPrefix(machine, "aarch64") {
		return BridgeTypeRPI
	}
	return BridgeTypeVirtual
}
