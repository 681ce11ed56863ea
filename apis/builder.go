/*
   Copyright 2025 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package apis

// Builder assembles the Registry and Resolver of a snapshot whenever the
// Config, a layer or the extension value changes. The previous layers are
// passed in so that registered names and enumerator tables survive.
type Builder interface {
	// BuildRegistry returns the registry for cfg, carrying over what reg
	// holds when it chooses to. ext is the value given to SetExt.
	BuildRegistry(cfg Config, reg Registry, ext any) Registry
	// BuildResolver returns the strategy chain for cfg on top of reg. res is
	// the resolver being replaced, or nil.
	BuildResolver(cfg Config, reg Registry, res Resolver, ext any) Resolver
}
