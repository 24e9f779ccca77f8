package translate

import (
	"fmt"
	"strings"

	"pkc/internal/entity"
)

// GenerateBindings renders the host-binding fragments for one compiled
// entity. A function group gets one run wrapper per workunit plus a
// module block registering them; a workload registers the functor class
// itself with its constructor and driver methods.
func GenerateBindings(moduleName string, e *entity.Entity, members *Members, workunits []WorkunitResult) []string {
	if e.Style == entity.StyleWorkload {
		return []string{workloadModule(moduleName, e.Name, members)}
	}

	fragments := make([]string, 0, len(workunits)+1)
	for _, wu := range workunits {
		fragments = append(fragments, runWrapper(e.Name, members, wu))
	}
	fragments = append(fragments, groupModule(moduleName, workunits))
	return fragments
}

// runWrapper is the callable wrapper for one free-standing workunit: it
// receives the thread count and every functor member, constructs the
// functor, and dispatches the tagged overload.
func runWrapper(entityName string, members *Members, wu WorkunitResult) string {
	functor := FunctorName(entityName)
	ret := "void"
	if wu.Op != DispatchFor {
		ret = wu.AccType.String()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s run_%s(int pk_threads%s) {\n", ret, wu.Name, ctorParamList(members))
	fmt.Fprintf(&b, "    %s pk_f(%s);\n", functor, ctorArgList(members))
	policy := fmt.Sprintf("Kokkos::RangePolicy<%s::%s>(0, pk_threads)", functor, wu.TagName)
	switch wu.Op {
	case DispatchFor:
		fmt.Fprintf(&b, "    Kokkos::parallel_for(%s, pk_f);\n", policy)
	case DispatchReduce:
		fmt.Fprintf(&b, "    %s pk_acc = 0;\n", wu.AccType)
		fmt.Fprintf(&b, "    Kokkos::parallel_reduce(%s, pk_f, pk_acc);\n", policy)
		b.WriteString("    return pk_acc;\n")
	case DispatchScan:
		fmt.Fprintf(&b, "    %s pk_acc = 0;\n", wu.AccType)
		fmt.Fprintf(&b, "    Kokkos::parallel_scan(%s, pk_f, pk_acc);\n", policy)
		b.WriteString("    return pk_acc;\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// groupModule registers every run wrapper under its workunit name.
func groupModule(moduleName string, workunits []WorkunitResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "PYBIND11_MODULE(%s, pk_m) {\n", moduleName)
	for _, wu := range workunits {
		fmt.Fprintf(&b, "    pk_m.def(\"run_%s\", &run_%s);\n", wu.Name, wu.Name)
	}
	b.WriteString("}\n")
	return b.String()
}

// workloadModule registers the functor class: its member-wise constructor
// and one method per driver.
func workloadModule(moduleName, entityName string, members *Members) string {
	functor := FunctorName(entityName)

	var b strings.Builder
	fmt.Fprintf(&b, "PYBIND11_MODULE(%s, pk_m) {\n", moduleName)
	fmt.Fprintf(&b, "    pybind11::class_<%s>(pk_m, \"%s\")\n", functor, entityName)
	fmt.Fprintf(&b, "        .def(pybind11::init<%s>())", ctorTypeList(members))
	for _, main := range members.MainOrder {
		b.WriteString("\n")
		fmt.Fprintf(&b, "        .def(\"%s\", &%s::%s)", main, functor, main)
	}
	b.WriteString(";\n}\n")
	return b.String()
}

func ctorParamList(members *Members) string {
	var b strings.Builder
	for _, name := range members.ViewOrder {
		fmt.Fprintf(&b, ", %s %s", members.Views[name].Cpp(), name)
	}
	for _, name := range members.FieldOrder {
		fmt.Fprintf(&b, ", %s %s", members.Fields[name].Cpp(), name)
	}
	return b.String()
}

func ctorArgList(members *Members) string {
	names := make([]string, 0, len(members.ViewOrder)+len(members.FieldOrder))
	names = append(names, members.ViewOrder...)
	names = append(names, members.FieldOrder...)
	return strings.Join(names, ", ")
}

func ctorTypeList(members *Members) string {
	types := make([]string, 0, len(members.ViewOrder)+len(members.FieldOrder))
	for _, name := range members.ViewOrder {
		types = append(types, members.Views[name].Cpp().String())
	}
	for _, name := range members.FieldOrder {
		types = append(types, members.Fields[name].Cpp().String())
	}
	return strings.Join(types, ", ")
}
