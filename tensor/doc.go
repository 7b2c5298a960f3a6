// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the symbolic tensor types used by shape inference.
//
// # Overview
//
// Shape inference never touches tensor data. This package only describes
// tensors:
//   - Shape: dimension list, with Dynamic for unknown dimensions
//   - DataType: element type names as written in IR documents
//   - NumPy-style broadcasting of shapes
//
// # Basic Usage
//
//	import "github.com/born-ml/opset/tensor"
//
//	func main() {
//	    a := tensor.Shape{8, 1, 768}
//	    b, _ := tensor.ParseShape("?,128,768")
//
//	    out, err := tensor.BroadcastShapes(a, b)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out) // [8 128 768]
//	}
//
// A dynamic dimension stays dynamic against 1 or another dynamic dimension.
// Against any other size the known size wins.
package tensor
