// Package serialization writes inferred graphs as YAML IR documents.
//
// A document lists every node as a layer in topological order together with
// its backend-visible attributes and port shapes, followed by the edges
// connecting output ports to input ports:
//
//	name: gelu-graph
//	format_version: 1
//	layers:
//	  - id: 1
//	    name: gelu
//	    type: Gelu
//	    version: opset7
//	    data:
//	      approximation_mode: ERF
//	    input:
//	      - id: 0
//	        shape: [1, 128, 768]
//	    output:
//	      - id: 1
//	        shape: [1, 128, 768]
//	edges:
//	  - {from_layer: 0, from_port: 0, to_layer: 1, to_port: 0}
//
// Input ports are numbered from zero and output ports continue after them.
// Dynamic dimensions are written as -1.
//
// Example usage:
//
//	if err := ir.NewDispatcher(registry).InferShapes(g); err != nil {
//	    return err
//	}
//	opts := serialization.DefaultWriteOptions()
//	opts.TargetVersion = "opset7"
//	if err := serialization.Write(os.Stdout, g, opts); err != nil {
//	    return err
//	}
package serialization
