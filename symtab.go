package main

//
// The variable stores.  Scalars and arrays live in separate maps, so
// a scalar 'a' and an array 'a' of the same suffix coexist without
// sharing storage; subscript/DIM/ERASE contexts select the array map.
// Names are the normalized storage keys built by the parser (base +
// canonical suffix), so 'a', 'a%', 'a!', 'a#' and 'a$' are all
// distinct cells
//

func initSymbolTable() {

	r.vars = make(map[string]any)
	r.arrays = make(map[string]*arrayData)
}

//
// Scalar fetch auto-initializes to the type zero on first read.
// ERR% and ERL% are system variables and always present
//

func fetchVariable(name string, vt varType) any {

	switch name {
	case "err%":
		return int16(r.errCode)

	case "erl%":
		return int16(r.errLine)
	}

	v, ok := r.vars[name]
	if !ok {
		v = zeroValue(vt)
		r.vars[name] = v
	}

	return v
}

func storeVariable(name string, vt varType, val any) {

	r.vars[name] = coerceTo(val, vt)
}

//
// Arrays.  A first subscript reference with no prior DIM implicitly
// dimensions every axis to upper bound 10
//

func lookupArray(name string, vt varType, numDims int) *arrayData {

	arr, ok := r.arrays[name]
	if !ok {
		dims := make([]int, numDims)
		for i := range dims {
			dims[i] = maxImplicitSubscript
		}
		arr = createArray(name, vt, dims)
	}

	runtimeCheck(len(arr.dims) == numDims, errSubscript)

	return arr
}

func createArray(name string, vt varType, dims []int) *arrayData {

	size := 1
	for _, d := range dims {
		runtimeCheck(d >= r.arrayBase, errSubscript)
		size *= d - r.arrayBase + 1
	}

	data := make([]any, size)
	zero := zeroValue(vt)
	for i := range data {
		data[i] = zero
	}

	arr := &arrayData{dims: dims, data: data, vtype: vt}
	r.arrays[name] = arr

	return arr
}

//
// DIM of an already-dimensioned array is a Duplicate definition
//

func dimArray(name string, vt varType, dims []int) {

	_, exists := r.arrays[name]
	runtimeCheck(!exists, errDuplicateDef)

	createArray(name, vt, dims)
}

func eraseArray(name string) {

	_, exists := r.arrays[name]
	runtimeCheck(exists, errIllegalFunction)

	delete(r.arrays, name)
}

//
// Flattened index: row-major over the inclusive base..dims[k] space
//

func arrayOffset(arr *arrayData, indices []int) int {

	runtimeCheck(len(indices) == len(arr.dims), errSubscript)

	off := 0

	for k, idx := range indices {
		runtimeCheck(idx >= r.arrayBase && idx <= arr.dims[k], errSubscript)
		off = off*(arr.dims[k]-r.arrayBase+1) + (idx - r.arrayBase)
	}

	return off
}

func fetchArrayElem(name string, vt varType, indices []int) any {

	arr := lookupArray(name, vt, len(indices))

	return arr.data[arrayOffset(arr, indices)]
}

func storeArrayElem(name string, vt varType, indices []int, val any) {

	arr := lookupArray(name, vt, len(indices))

	arr.data[arrayOffset(arr, indices)] = coerceTo(val, arr.vtype)
}
